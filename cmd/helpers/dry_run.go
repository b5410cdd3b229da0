package helpers

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintContextInfo prints context configuration in verbose/dry-run mode
func PrintContextInfo(w io.Writer, context map[string]any, dryRun bool) {
	if len(context) == 0 {
		return
	}

	header := "Context Configuration"
	if dryRun {
		header = "Context Configuration (DRY RUN)"
	}

	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintln(w, "========================================")

	jsonBytes, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "  %v\n", context)
	} else {
		_, _ = fmt.Fprintf(w, "%s\n", string(jsonBytes))
	}

	_, _ = fmt.Fprintln(w, "----------------------------------------")
}
