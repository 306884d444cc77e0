package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sant0-9/quill/internal/assistant"
	"github.com/sant0-9/quill/internal/config"
	"github.com/sant0-9/quill/internal/logging"
	"github.com/sant0-9/quill/internal/repl"
	"github.com/sant0-9/quill/internal/tui"
)

var version = "dev"

var (
	// Global flags
	configPath string
	plain      bool
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "quill - a terminal assistant that drafts, revises and sends email",
	Long: `quill answers questions and handles email as a conversation.

Draft with "to=alice@example.com subject=\"Hi\" content=\"...\"" or plain
language, revise with edit/rewrite/manual, and nothing is sent until you type
CONFIRM SEND.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logPath, err := orDefault(cfg).LogPath()
		if err != nil {
			return err
		}
		logger, err = logging.New(logPath, orDefault(cfg).Logging.Level, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if plain {
			return runPlain(cmd)
		}
		return runInteractive()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/quill/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Use a plain line-based prompt instead of the full-screen interface")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig returns the saved config, or nil when none exists yet.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return cfg, nil
	}
	return config.Load()
}

func orDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// effective applies environment overrides to a copy so they are never saved.
func effective(cfg *config.Config) *config.Config {
	c := *orDefault(cfg)
	c.ApplyEnv(os.Getenv)
	return &c
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func buildAssistant(ctx context.Context, cfg *config.Config, in io.Reader, out, outbox io.Writer) (*assistant.Assistant, error) {
	return assistant.Build(ctx, assistant.Options{
		Config: effective(cfg),
		Logger: logger,
		In:     in,
		Out:    out,
		Outbox: outbox,
		Getenv: os.Getenv,
	})
}

func runPlain(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := buildAssistant(ctx, cfg, cmd.InOrStdin(), cmd.ErrOrStderr(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	return repl.Run(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outbox, err := openOutbox()
	if err != nil {
		return err
	}
	defer outbox.Close()

	build := func(ctx context.Context, c *config.Config, suspend func(func() error) error) (tui.Backend, error) {
		// The terminal belongs to the UI, so Gmail must already be authorized.
		a, err := buildAssistant(ctx, c, eofReader{}, io.Discard, outbox)
		if err != nil {
			return nil, err
		}
		a.Editor.Suspend = suspend
		return a, nil
	}

	app := tui.NewApp(cfg, build)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	app.SetProgram(p)

	_, err = p.Run()
	if cerr := app.Close(); cerr != nil {
		logger.Warn("close", zap.Error(cerr))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// openOutbox is where the stdout mailbox writes while the UI owns stdout.
func openOutbox() (*os.File, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "outbox.txt"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
