package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rowlist/internal/model"
	"rowlist/internal/store"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Create, list and remove lists",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.store().CreateList(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("list created", zap.String("list", l.ID), zap.String("name", l.Name))
			return writeOut(cmd, app, map[string]any{
				"data": l,
				"_hints": []string{
					"rowlist rows add " + l.Name + " <title>",
					"rowlist --list " + l.Name,
				},
			})
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List lists (by name)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := app.store().Lists(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			if lists == nil {
				lists = []model.List{}
			}
			return writeOut(cmd, app, map[string]any{"data": lists})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <list>",
		Short: "Delete a list and all of its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			st := app.store()
			l, err := st.FindList(ctx, args[0])
			if err != nil {
				return writeErr(cmd, storeErr("list", args[0], err))
			}
			if err := st.DeleteList(ctx, l.ID); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("list deleted", zap.String("list", l.ID))
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	useCmd := &cobra.Command{
		Use:   "use <list>",
		Short: "Make a list the default for commands that take one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.store().FindList(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, storeErr("list", args[0], err))
			}
			cfg := app.cfg
			if cfg == nil {
				cfg = &store.Config{}
			}
			cfg.DefaultList = l.Name
			if err := store.SaveConfig(app.ConfigPath, cfg); err != nil {
				return writeErr(cmd, fmt.Errorf("save config: %w", err))
			}
			app.logger().Info("default list set", zap.String("list", l.ID), zap.String("name", l.Name))
			return writeOut(cmd, app, map[string]any{
				"data":   l,
				"_hints": []string{"rowlist rows ls", "rowlist"},
			})
		},
	}

	cmd.AddCommand(createCmd, lsCmd, rmCmd, useCmd)
	return cmd
}
