package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rowlist/internal/listview"
	"rowlist/internal/model"
	"rowlist/internal/store"
)

func newRowsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Inspect and edit the rows of a list",
	}
	cmd.AddCommand(
		newRowsLsCmd(app),
		newRowsAddCmd(app),
		newRowsRmCmd(app),
		newRowsMvCmd(app),
		newRowsShowCmd(app),
		newRowsSetCmd(app),
	)
	return cmd
}

func newRowsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [list]",
		Short: "List rows in display order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := app.listRef(args, 0)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows, err := app.store().Rows(cmdContext(cmd), ref)
			if err != nil {
				return writeErr(cmd, storeErr("list", ref, err))
			}
			if rows == nil {
				rows = []model.Row{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{"count": len(rows)},
			})
		},
	}
}

func newRowsAddCmd(app *App) *cobra.Command {
	var notes string
	var height int
	var at int

	c := &cobra.Command{
		Use:   "add <list> <title>",
		Short: "Add a row (appends unless --at is given)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			nr := store.NewRow{Title: args[1], Notes: notes, Height: height}
			r, err := app.store().InsertRow(ctx, args[0], at, nr)
			if err != nil {
				return writeErr(cmd, storeErr("list", args[0], err))
			}
			app.logger().Info("row added", zap.String("row", r.ID), zap.String("list", r.ListID))
			return writeOut(cmd, app, map[string]any{
				"data":   r,
				"_hints": []string{"rowlist rows mv " + args[0] + " " + r.ID + " <index>"},
			})
		},
	}
	c.Flags().StringVar(&notes, "notes", "", "Row notes (Markdown)")
	c.Flags().IntVar(&height, "height", 1, "Row height in lines")
	c.Flags().IntVar(&at, "at", -1, "Insert at this index (default: append)")
	return c
}

func newRowsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list> <row-id>",
		Short: "Remove a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			st := app.store()
			rows, err := st.Rows(ctx, args[0])
			if err != nil {
				return writeErr(cmd, storeErr("list", args[0], err))
			}
			idx := indexOfRow(rows, args[1])
			if idx < 0 {
				return writeErr(cmd, errNotFound("row", args[1]))
			}

			var removeErr error
			w := newRowWidget(app, rows, listview.Config[model.Row]{
				OnRemoved: func(_ *listview.List[model.Row], index int) {
					_, removeErr = st.DeleteRow(ctx, rows[index].ID)
				},
			})
			w.Select(idx)
			if !w.RemoveActive() {
				return writeErr(cmd, fmt.Errorf("row %s was not removed", args[1]))
			}
			if removeErr != nil {
				return writeErr(cmd, removeErr)
			}
			app.logger().Info("row removed", zap.String("row", args[1]), zap.Int("index", idx))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": rows[idx].ID, "index": idx},
			})
		},
	}
}

func newRowsMvCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <list> <row-id> <index>",
		Short: "Move a row to a new index, exactly as a drag would",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			to, err := strconv.Atoi(strings.TrimSpace(args[2]))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q", args[2]))
			}
			rows, from, err := moveRow(ctx, app, args[0], args[1], to)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{"from": from, "to": to},
			})
		},
	}
}

// moveRow applies a move through the list widget's commit path and persists
// the resulting reorder. It returns the rows in their new order.
func moveRow(ctx context.Context, app *App, listRef, rowID string, to int) ([]model.Row, int, error) {
	st := app.store()
	rows, err := st.Rows(ctx, listRef)
	if err != nil {
		return nil, -1, storeErr("list", listRef, err)
	}
	from := indexOfRow(rows, rowID)
	if from < 0 {
		return nil, -1, errNotFound("row", rowID)
	}
	if to < 0 || to >= len(rows) {
		return nil, from, errIndexRange(to, len(rows))
	}
	if from == to {
		return rows, from, nil
	}

	coll := listview.NewSliceCollection(rows)
	var moveErr error
	w := listview.New[model.Row](coll, listview.Config[model.Row]{
		Draggable: true,
		OnReorder: func(l *listview.List[model.Row], from, to int) {
			r, _ := l.At(to)
			_, moveErr = st.MoveRow(ctx, r.ID, to)
		},
		Logger: app.logger(),
	})
	if !w.Move(from, to) {
		return nil, from, fmt.Errorf("row %s can not move to %d", rowID, to)
	}
	if moveErr != nil {
		return nil, from, moveErr
	}
	app.logger().Info("row reordered", zap.String("row", rowID), zap.Int("from", from), zap.Int("to", to))
	return coll.Items, from, nil
}

func newRowWidget(app *App, rows []model.Row, cfg listview.Config[model.Row]) *listview.List[model.Row] {
	cfg.Logger = app.logger()
	cfg.Label = func(r model.Row) string { return r.Title }
	return listview.New[model.Row](listview.NewSliceCollection(append([]model.Row(nil), rows...)), cfg)
}

func newRowsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <row-id>",
		Short: "Show a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			st := app.store()
			r, err := st.FindRow(ctx, args[0])
			if err != nil {
				return writeErr(cmd, storeErr("row", args[0], err))
			}
			meta := map[string]any{}
			if rows, err := st.Rows(ctx, r.ListID); err == nil {
				meta["index"] = indexOfRow(rows, r.ID)
				meta["count"] = len(rows)
			}
			return writeOut(cmd, app, map[string]any{"data": r, "meta": meta})
		},
	}
}

func newRowsSetCmd(app *App) *cobra.Command {
	var title, notes string
	var height int

	c := &cobra.Command{
		Use:   "set <row-id>",
		Short: "Update a row's title, notes or height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			st := app.store()
			r, err := st.FindRow(ctx, args[0])
			if err != nil {
				return writeErr(cmd, storeErr("row", args[0], err))
			}
			if cmd.Flags().Changed("title") {
				r.Title = title
			}
			if cmd.Flags().Changed("notes") {
				r.Notes = notes
			}
			if cmd.Flags().Changed("height") {
				r.Height = height
			}
			r, err = st.UpdateRow(ctx, r)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": r})
		},
	}
	c.Flags().StringVar(&title, "title", "", "New title")
	c.Flags().StringVar(&notes, "notes", "", "New notes (Markdown)")
	c.Flags().IntVar(&height, "height", 1, "New height in lines")
	return c
}

func indexOfRow(rows []model.Row, id string) int {
	id = strings.TrimSpace(id)
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
