package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/animus/internal/protocol"
)

type actionSpec struct {
	use    string
	short  string
	action protocol.Action
}

var actionSpecs = []actionSpec{
	{"query", "Get the animus name (answered even when not targeted)", protocol.Query},
	{"name", "Get the name of the managed complex", protocol.Name},
	{"version", "Get the running animusd version", protocol.Version},
	{"status", "Report whether the animus is awake", protocol.Status},
	{"structures", "List each structure in the network", protocol.ListStructures},
	{"outputs", "List network outputs", protocol.ListOutputs},
	{"inputs", "List network inputs", protocol.ListInputs},
	{"report-inputs", "Report the level of each input", protocol.ReportInputs},
	{"wake", "Begin processing signals", protocol.Wake},
	{"save", "Write the network state to the save file", protocol.Save},
	{"sleep", "Stop processing new stimuli", protocol.Sleep},
	{"terminate", "Shut the animus down", protocol.Terminate},
}

func newActionCmd(opts *rootOptions, spec actionSpec) *cobra.Command {
	return &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, opts, protocol.NewCommand(opts.name, spec.action))
		},
	}
}

// errNoTarget is returned before sending: an animus only answers commands
// addressed to its own name, Query excepted.
var errNoTarget = errors.New("--name is required for every command except query")

func send(cmd *cobra.Command, opts *rootOptions, command protocol.Command) error {
	if strings.TrimSpace(command.Name) == "" && command.Action.Kind != protocol.ActionQuery {
		return fmt.Errorf("%s: %w", command.Action, errNoTarget)
	}
	client, err := opts.client()
	if err != nil {
		return err
	}
	report, err := client.Send(cmd.Context(), opts.addr, command)
	if err != nil {
		return err
	}
	return printReport(cmd.OutOrStdout(), report)
}
