package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"rowlist/internal/publish"
)

func newExportCmd(app *App) *cobra.Command {
	var as string
	var toDir string
	var notes bool
	var ids bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export [list]",
		Short: "Render a list as Markdown or HTML (stdout, or a file with --to)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := publish.ParseKind(as)
			if err != nil {
				return writeErr(cmd, err)
			}
			ref, err := app.listRef(args, 0)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)
			st := app.store()
			l, err := st.FindList(ctx, ref)
			if err != nil {
				return writeErr(cmd, storeErr("list", ref, err))
			}
			rows, err := st.Rows(ctx, l.ID)
			if err != nil {
				return writeErr(cmd, err)
			}

			opt := publish.WriteOptions{
				RenderOptions: publish.RenderOptions{IncludeNotes: notes, IncludeIDs: ids},
				Kind:          kind,
				Overwrite:     overwrite,
			}
			if strings.TrimSpace(toDir) == "" {
				_, err := publish.WriteList(cmd.OutOrStdout(), "", l, rows, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			res, err := publish.WriteList(nil, toDir, l, rows, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"_hints": []string{"open " + strings.Join(res.Written, " ")},
			})
		},
	}
	cmd.Flags().StringVar(&as, "as", "md", "Output kind (md|html)")
	cmd.Flags().StringVar(&toDir, "to", "", "Write a file into this directory instead of stdout")
	cmd.Flags().BoolVar(&notes, "notes", false, "Include row notes")
	cmd.Flags().BoolVar(&ids, "ids", false, "Include row ids")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
