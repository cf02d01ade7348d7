package cmd

import (
	"fmt"
	"io"

	"github.com/danmuck/animus/internal/protocol"
)

// printReport writes the report header line and, for Return outcomes, the
// payload interpreted by the shape its action defines.
func printReport(w io.Writer, r protocol.Report) error {
	fmt.Fprintf(w, "%s %s %s\n", r.Name, r.Action, r.Outcome.Kind)
	if !r.Outcome.IsReturn() {
		return nil
	}

	switch r.Action.Kind {
	case protocol.ActionQuery, protocol.ActionName, protocol.ActionVersion:
		s, err := r.Outcome.Text()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\n", s)
	case protocol.ActionListStructures, protocol.ActionListOutputs, protocol.ActionListInputs:
		items, err := r.Outcome.List()
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item)
		}
	case protocol.ActionReportInputs:
		readings, err := r.Outcome.Readings()
		if err != nil {
			return err
		}
		for _, rd := range readings {
			fmt.Fprintf(w, "  %-16s %d\n", rd.Input, rd.Level)
		}
	default:
		fmt.Fprintf(w, "  %s\n", r.Outcome)
	}
	return nil
}
