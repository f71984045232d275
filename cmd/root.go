package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"librarian/catalog"
	"librarian/config"
	"librarian/ledger"
	"librarian/lending"
	"librarian/member"
	"librarian/notify"
)

var (
	cfgFile  string
	seedFile string

	cfg    *config.Config
	logger zerolog.Logger

	store *ledger.Store
	inbox *notify.Inbox
	coord *lending.Coordinator
)

// rootCmd starts an interactive lending session. Catalog and member
// state lives for the session; the ledger database path comes from
// the configuration.
var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Library catalog and lending workflow",
	Long: `librarian manages a single-library catalog: books, members,
and the borrow/return/reserve lifecycle with due dates and late fees.`,
	PersistentPreRunE: initializeApp,
	RunE:              runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.Flags().StringVar(&seedFile, "seed", "", "catalog seed file loaded at startup")
}

// initializeApp loads the configuration and wires the coordinator.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	store, err = ledger.Open(cfg.Library.LedgerPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	cat := catalog.New(cfg.Library.MaxBooks)
	members := member.NewDirectory(cfg.Library.MaxMembers, cfg.Library.MaxAttempts)
	inbox = notify.NewInbox()
	rules := lending.RulesFromConfig(cfg.Lending)

	coord = lending.New(cat, members, store, inbox, lending.SystemClock(), rules, logger)

	if seedFile != "" {
		n, err := seedCatalog(coord, seedFile)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logger.Info().Int("books", n).Str("file", seedFile).Msg("catalog seeded")
	}

	return nil
}

// setupLogger configures the zerolog logger.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}
