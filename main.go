package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"admintui/internal/api"
	"admintui/internal/auth"
	"admintui/internal/dynamo"
	"admintui/internal/schema"
	"admintui/internal/section"
)

type options struct {
	api        string
	configPath string
	backend    string
	region     string
}

// app is everything a command needs once config is resolved.
type app struct {
	cfg     Config
	logger  *zap.Logger
	ctrl    *section.Controller
	user    string
	backend string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:          "admintui",
		Short:        "Terminal dashboard for the admin Resource API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), o)
			if err != nil {
				return err
			}
			defer a.close()
			return a.runTUI()
		},
	}
	root.PersistentFlags().StringVar(&o.api, "api", "", "Resource API base URL")
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ~/.config/admintui/config.json)")
	root.PersistentFlags().StringVar(&o.backend, "backend", "", "backend: http or dynamodb")
	root.PersistentFlags().StringVar(&o.region, "region", "", "AWS region for the dynamodb backend")

	root.AddCommand(newLoginCmd(&o), newLogoutCmd(), newImportCmd(&o))
	return root
}

func newLoginCmd(o *options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(*o)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if password == "" {
				username, password, err = promptCredentials(username)
				if err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			sess, err := auth.Login(ctx, api.NewClient(cfg.APIBaseURL, api.WithLogger(logger)), username, password)
			if err != nil {
				logger.Warn("login failed", zap.String("user", username), zap.Error(err))
				return err
			}
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if err := store.Save(sess); err != nil {
				return err
			}
			logger.Info("logged in", zap.String("user", username), zap.String("session", store.Path()))
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out; removed %s\n", store.Path())
			return nil
		},
	}
}

func newImportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import SECTION FILE",
		Short: "Bulk-create records from a text file, one per line",
		Long: "Bulk-create records from a text file, one per line. Lines follow the section's\n" +
			"grammar, e.g. email,password,device_id for accounts. Use - to read stdin.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), *o)
			if err != nil {
				return err
			}
			defer a.close()

			var raw []byte
			if args[1] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[1])
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := a.ctrl.Switch(ctx, args[0]); err != nil {
				return err
			}
			out, err := a.ctrl.Import(ctx, string(raw))
			if out.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			}
			if err != nil {
				return err
			}
			if out.Partial() {
				return errors.New("import partially applied")
			}
			return nil
		},
	}
}

func sessionStore() (*auth.Store, error) {
	p, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return auth.NewStore(p), nil
}

// setup resolves config, opens the log and picks the backend. The http backend needs a
// live session.
func setup(ctx context.Context, o options) (*app, error) {
	cfg, err := resolveConfig(o)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	if cfg.Theme == "Light" {
		lipgloss.SetHasDarkBackground(false)
	}

	a := &app{cfg: cfg, logger: logger}
	var backend api.ResourceAPI
	switch cfg.Backend {
	case backendDynamoDB:
		b, err := dynamo.NewFromConfig(ctx, cfg.Region,
			dynamo.WithTablePrefix(cfg.TablePrefix),
			dynamo.WithLogger(logger.Named("dynamo")))
		if err != nil {
			return nil, err
		}
		if missing, err := b.MissingTables(ctx, endpoints(schema.Default())); err != nil {
			logger.Warn("cannot list tables", zap.Error(err))
		} else if len(missing) > 0 {
			logger.Warn("tables missing", zap.Strings("tables", missing))
		}
		backend = b
		a.backend = "DynamoDB " + cfg.Region
	default:
		store, err := sessionStore()
		if err != nil {
			return nil, err
		}
		sess, err := store.Load()
		if err != nil {
			return nil, err
		}
		if !sess.Valid(time.Now()) {
			return nil, errors.New("session expired; run `admintui login`")
		}
		client := api.NewClient(cfg.APIBaseURL, api.WithToken(sess.Token), api.WithLogger(logger.Named("api")))
		backend = client
		a.user = sess.Username()
		a.backend = client.BaseURL()
	}

	reg := schema.Default()
	ctrl, err := section.New(reg, backend, logger.Named("section"), reg.IDs()[0])
	if err != nil {
		return nil, err
	}
	if err := ctrl.SetPageSize(cfg.PageSize); err != nil {
		return nil, err
	}
	a.ctrl = ctrl
	logger.Info("starting", zap.String("backend", cfg.Backend), zap.String("target", a.backend))
	return a, nil
}

func endpoints(reg *schema.Registry) []string {
	var out []string
	for _, id := range reg.IDs() {
		if d, err := reg.Describe(id); err == nil {
			out = append(out, d.Endpoint)
		}
	}
	return out
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) runTUI() error {
	m := newModel(a.ctrl, a.logger, a.backend, a.user)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newLogger writes JSON lines to path; the terminal belongs to the UI.
func newLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if os.Getenv("ADMINTUI_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
