package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/logging"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/store"
)

// appConfig is loaded before any command runs.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "mathquest",
	Short: "Arithmetic battles and practice in the terminal",
	Long:  "MathQuest generates arithmetic questions with whole-number answers and lets you practice them or fight timed battles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHQUEST_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a mathquest.yaml config file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(battleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHQUEST_DB, then db_path from the config, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("MATHQUEST_DB") == "" && appConfig.DBPath != "" {
		return appConfig.DBPath, store.EnsureDir(appConfig.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newLogger builds the logger for a command. Interactive commands own the
// terminal, so their logs go to a file.
func newLogger(interactive bool) (*zap.Logger, error) {
	if !interactive {
		return logging.New(appConfig.Env, appConfig.LogLevel)
	}
	path := appConfig.LogFile
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "mathquest.log")
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return logging.NewFile(path, appConfig.LogLevel)
}

// generatorFactory returns time-seeded generators logging to logger.
func generatorFactory(logger *zap.Logger) func() *problemgen.Generator {
	return func() *problemgen.Generator {
		gc := problemgen.DefaultConfig()
		gc.Logger = logger.Named("problemgen")
		return problemgen.New(nil, gc)
	}
}
