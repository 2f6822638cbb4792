package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/config"
	"github.com/stationeryhq/stationery-server/internal/adminapi"
	"github.com/stationeryhq/stationery-server/internal/app"
	"github.com/stationeryhq/stationery-server/internal/webserver"
)

var configFile = flag.String("c", "stationery.yml", "configuration file")

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	server := webserver.New(cfg)
	handler := adminapi.New(
		application.Credentials(),
		application.Tokens(),
		application.Catalog(),
		application.Assets(),
	)
	handler.Register(server.Echo(), webserver.AdminGate([]byte(cfg.Web.JwtSecret))...)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("web server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
