package cli

import (
	"github.com/spf13/cobra"

	"rowlist/internal/model"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events [list]",
		Short: "Show a list's change log (oldest-first)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := app.listRef(args, 0)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := app.store().ReadEvents(cmdContext(cmd), ref, limit)
			if err != nil {
				return writeErr(cmd, storeErr("list", ref, err))
			}
			if evs == nil {
				evs = []model.Event{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": evs,
				"meta": map[string]any{"count": len(evs), "limit": limit},
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Max events to return, newest kept (0 = all)")
	return cmd
}
