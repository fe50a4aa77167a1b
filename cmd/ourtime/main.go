package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ourtime/cmd/ourtime/app"
	"ourtime/internal/api"
	"ourtime/internal/config"
	"ourtime/internal/logging"
	"ourtime/internal/session"
)

var (
	// Global flags
	verbose bool
	apiURL  string

	// Logger for one-shot commands; the interactive UI writes category
	// files instead.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ourtime",
	Short: "OurTime - shared memories on a map",
	Long: `OurTime is a client for the OurTime memory-sharing service.

Memories are pinned to the places they happened and shared within groups
(couples, families, friends, teams). Run without arguments to open the
interactive map; subcommands cover scripting and quick one-shot actions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI has its own logging.
		if cmd.Use == "ourtime" && cmd.CalledAs() == "ourtime" {
			return nil
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// stack bundles what every command needs.
type stack struct {
	cfg    *config.Config
	cfgDir string
	sess   *session.Store
	client *api.Client
}

// newStack loads configuration and the persisted session and builds the
// API client. The --api-url flag wins over every config layer.
func newStack() (*stack, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	sess, err := session.Open(dir)
	if err != nil {
		return nil, err
	}
	return &stack{
		cfg:    cfg,
		cfgDir: dir,
		sess:   sess,
		client: api.New(cfg.API.BaseURL, sess,
			api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second)),
	}, nil
}

// requireLogin fails fast for commands that need a session.
func (s *stack) requireLogin() error {
	if !s.sess.LoggedIn() {
		return fmt.Errorf("not signed in; run 'ourtime login' first")
	}
	return nil
}

func runInteractive() error {
	st, err := newStack()
	if err != nil {
		return err
	}
	if err := logging.Initialize(st.cfgDir, st.cfg.Logging.Debug, st.cfg.Logging.Level); err != nil {
		return err
	}
	defer logging.CloseAll()

	m, err := app.New(st.cfg, st.cfgDir, st.sess)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override the backend base URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
