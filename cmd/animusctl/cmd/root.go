package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/transport/udp"
)

// Version is set by the main package via ldflags.
var Version = "dev"

type rootOptions struct {
	addr     string
	name     string
	timeout  time.Duration
	revision uint16
	retries  int
}

func (o *rootOptions) client() (udp.Client, error) {
	rev, ok := protocol.LookupRevision(o.revision)
	if !ok {
		return udp.Client{}, fmt.Errorf("unknown revision %d", o.revision)
	}
	return udp.Client{Timeout: o.timeout, Codec: protocol.Codec{Revision: rev}, Retries: o.retries}, nil
}

// NewRootCmd creates the root animusctl command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "animusctl",
		Short:         "animusctl: send control commands to an animus",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.addr, "addr", "127.0.0.1:4048", "animus UDP address")
	flags.StringVar(&opts.name, "name", "", "name of the targeted animus")
	flags.DurationVar(&opts.timeout, "timeout", udp.DefaultTimeout, "time to wait for a report")
	flags.Uint16Var(&opts.revision, "revision", protocol.CurrentRevision.Number, "wire revision to encode with")
	flags.IntVar(&opts.retries, "retries", 0, "resends after an unanswered attempt")

	for _, spec := range actionSpecs {
		rootCmd.AddCommand(newActionCmd(opts, spec))
	}
	rootCmd.AddCommand(newConnectCmd(opts))
	return rootCmd
}
