// internal/model/request.go
package model

import "fmt"

// Commands is the body of a print or reprint request: an ordered job.
type Commands struct {
	Commands []Command `json:"commands"`
}

// PrinterTestRequest is the body of a test-print request. TestPage prints a
// fixed formatting showcase; TestLine, when non-empty, prints a single line.
type PrinterTestRequest struct {
	TestPage bool   `json:"test_page"`
	TestLine string `json:"test_line"`
}

// Summarize renders a short human-readable description of a job for the
// print history: the first text line (if any) plus the command count.
func Summarize(cmds []Command) string {
	for _, c := range cmds {
		if (c.Name == CmdWrite || c.Name == CmdWriteln) && c.Text != "" {
			return fmt.Sprintf("%q (%d commands)", c.Text, len(cmds))
		}
	}
	return fmt.Sprintf("%d commands", len(cmds))
}
