package cli

import "github.com/spf13/cobra"

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [list]",
		Short: "Open the interactive list editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			return runTUI(cmd, app, ref)
		},
	}
}
