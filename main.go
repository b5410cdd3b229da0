package main

import "github.com/zinc-sig/uplink/cmd"

func main() {
	cmd.Execute()
}
