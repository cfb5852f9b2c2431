package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathquest/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question generation and battle history over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		logger, err := newLogger(false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := api.New(addr, api.Deps{
			Battles:      st.BattleRepo(),
			DB:           st.DB(),
			Logger:       logger.Named("api"),
			NewGenerator: generatorFactory(logger),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down http server")
			return srv.Shutdown(context.Background())
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
