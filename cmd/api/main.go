package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tsinling0525/flowrun/cmd/api/server"
	"github.com/Tsinling0525/flowrun/engine"
	"github.com/Tsinling0525/flowrun/infra"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	log, err := infra.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	gin.SetMode(gin.ReleaseMode)

	eng := engine.New(infra.NewDeps(cfg))
	r := server.NewRouter(eng, infra.NewFlowStore(cfg.FlowsDir()), log)

	log.Info().Str("port", cfg.APIPort).Msg("starting flowrun API server")
	log.Info().Msg("GET    /health              - Health check")
	log.Info().Msg("POST   /flows/run           - Run a posted flow")
	log.Info().Msg("GET    /flows               - List saved flows")
	log.Info().Msg("PUT    /flows/:name         - Save flow")
	log.Info().Msg("DELETE /flows/:name         - Delete flow")
	log.Info().Msg("POST   /flows/:name/run     - Run saved flow")

	srv := &http.Server{Addr: ":" + cfg.APIPort, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
