package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rowlist/internal/format"
	"rowlist/internal/logging"
	"rowlist/internal/store"
	"rowlist/internal/tui"
)

type App struct {
	Dir        string
	List       string
	ConfigPath string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg *store.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "rowlist",
		Short:        "Reorderable lists (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the TUI on a list
  rowlist --list groceries

  # Scriptable commands
  rowlist lists create groceries
  rowlist rows add groceries "Milk"
  rowlist rows mv groceries row-0a1b2c3d4e5f 0

  # Direct row lookup (shortcut for: rowlist rows show <row-id>)
  rowlist row-0a1b2c3d4e5f
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ROWLIST_DIR", ""), "Path to store dir (default ~/.rowlist/default)")
	cmd.PersistentFlags().StringVar(&app.List, "list", envOr("ROWLIST_LIST", ""), "List id or name (default: defaultList from config)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("ROWLIST_CONFIG", ""), "Path to config.yaml (default ~/.rowlist/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("ROWLIST_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ROWLIST_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newRowsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// setup applies the config file under flags and env, then opens the log.
func (app *App) setup(cmd *cobra.Command) error {
	if _, err := format.Parse(app.Format); err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := store.LoadConfig(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = cfg

	if strings.TrimSpace(app.List) == "" {
		app.List = cfg.DefaultList
	}
	if strings.TrimSpace(app.LogLevel) == "" {
		app.LogLevel = cfg.LogLevel
	}
	if strings.TrimSpace(app.Dir) == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Dir = d
	}
	app.Dir = filepath.Clean(app.Dir)

	log, err := logging.New(app.LogLevel, filepath.Join(app.Dir, logging.FileName))
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log.With(zap.String("cmd", cmd.CommandPath()))
	return nil
}

func (app *App) store() store.Store { return store.Store{Dir: app.Dir} }

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

// listRef picks the positional list argument, falling back to --list.
func (app *App) listRef(args []string, i int) (string, error) {
	if i < len(args) && strings.TrimSpace(args[i]) != "" {
		return strings.TrimSpace(args[i]), nil
	}
	if ref := strings.TrimSpace(app.List); ref != "" {
		return ref, nil
	}
	return "", errors.New("no list selected (pass a list, --list, or set defaultList in config)")
}

func runTUI(cmd *cobra.Command, app *App, ref string) error {
	if ref == "" {
		ref = strings.TrimSpace(app.List)
	}
	st := app.store()
	ctx := cmdContext(cmd)
	if ref == "" {
		lists, err := st.Lists(ctx)
		if err != nil {
			return writeErr(cmd, err)
		}
		if len(lists) != 1 {
			return writeErr(cmd, errors.New("no list selected; run `rowlist lists ls` and pass --list <name>"))
		}
		ref = lists[0].ID
	}
	var cfg store.TUIConfig
	if app.cfg != nil {
		cfg = app.cfg.TUI
	}
	if err := tui.Run(ctx, tui.Options{Store: st, ListRef: ref, Config: cfg, Logger: app.logger()}); err != nil {
		return writeErr(cmd, storeErr("list", ref, err))
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
