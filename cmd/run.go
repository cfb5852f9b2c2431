package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/battle"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{
		Questions:    appConfig.Questions,
		Battle:       appConfig.Battle,
		Settings:     appConfig.Settings,
		Sounds:       battle.NopSounds{},
		NewGenerator: generatorFactory(logger),
		Battles:      st.BattleRepo(),
		Practice:     st.PracticeRepo(),
		Logger:       logger,
	}
	if appConfig.Settings.SoundEnabled {
		// The TUI renders to stdout; bells go to stderr.
		opts.Sounds = battle.NewBellSounds(os.Stderr)
	}

	logger.Info("starting tui")
	return app.Run(opts)
}
