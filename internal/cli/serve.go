package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"daily-meal-planner/internal/api"
	"daily-meal-planner/internal/report"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning API over HTTP",
	Long: `Serve the planning API over HTTP. When API_JWT_SECRET is set every /api/
route needs a bearer token from "meal-planner token". A catalog file set with
MEAL_PLANNER_CATALOG_PATH is reloaded whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		source, closeSource, err := e.source(ctx, true)
		if err != nil {
			return err
		}
		defer closeSource()

		text, err := report.NewTextFormatter(e.cfg.Locale)
		if err != nil {
			return err
		}

		if e.cfg.APIJWTSecret == "" {
			e.logger.Warn().Msg("API_JWT_SECRET not set, the API is open to anyone who can reach it")
		}

		addr := serveAddr
		if addr == "" {
			addr = fmt.Sprintf(":%d", e.cfg.Port)
		}
		srv := api.NewServer(e.newApp(source, text, text.Labels), e.cfg.APIJWTSecret, e.logger)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :$PORT)")
	rootCmd.AddCommand(serveCmd)
}
