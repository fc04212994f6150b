package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/appsim/appsim/pkg/logging"
	"github.com/appsim/appsim/pkg/mockapi"
)

var (
	servePort      int
	serveSlowDelay time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the mock user API over HTTP",
	Long: `Starts an HTTP server backed by the same in-process mock routes the
demo uses. Useful for pointing external tools at the seeded data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTPPort = servePort
		}
		if cmd.Flags().Changed("slow-delay") {
			cfg.SlowDelay = serveSlowDelay
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: logging.ParseFormat(cfg.LogFormat),
		})

		svc := mockapi.NewUserService(cfg.SlowDelay)
		router := mockapi.NewRouter(mockapi.RouterOptions{Logger: log}, svc.Routes()...)

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("mock API listening", "addr", server.Addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().DurationVar(&serveSlowDelay, "slow-delay", mockapi.DefaultSlowDelay, "Latency of the slow endpoint")
}
