package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/app"
	"github.com/sergiomvp10/tutti-services/internal/storefrontapi"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP service",
	Long: `Run the storefront HTTP service.

Examples:
  # Run with the default config file
  tutti serve

  # Point the service at a different upstream API
  TUTTI_API_URL=https://api.tutti.co tutti serve -c ./tutti.yml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	storefrontapi.Init()
	srv := webserver.NewWebServer(application, zap.L())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("shutdown", zap.Error(err))
		return err
	}
	return nil
}
