package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/tract"
)

func newConnectCmd(opts *rootOptions) *cobra.Command {
	var recv tract.Receiver
	c := &cobra.Command{
		Use:   "connect",
		Short: "Connect an output tract to an input on another animus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := recv.Validate(); err != nil {
				return err
			}
			return send(cmd, opts, protocol.NewCommand(opts.name, protocol.ConnectTract(recv)))
		},
	}
	c.Flags().StringVar(&recv.Tract, "tract", "", "output tract to connect")
	c.Flags().StringVar(&recv.Animus, "animus", "", "name of the receiving animus")
	c.Flags().StringVar(&recv.Address, "address", "", "address of the receiving animus")
	c.Flags().StringVar(&recv.Input, "input", "", "input on the receiving animus")
	return c
}
