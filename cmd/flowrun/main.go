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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/cmd/api/server"
	"github.com/Tsinling0525/flowrun/engine"
	"github.com/Tsinling0525/flowrun/format/env"
	"github.com/Tsinling0525/flowrun/infra"
)

type app struct {
	cfg *infra.Config
	log zerolog.Logger
	eng *engine.Engine
}

func newApp() (*app, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := infra.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	gin.SetMode(gin.ReleaseMode)
	return &app{cfg: cfg, log: log, eng: engine.New(infra.NewDeps(cfg))}, nil
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  flowrun server                                  # start API server (foreground)")
	fmt.Println("  flowrun run   --file path | --name flow [--env path] [--json]")
	fmt.Println("                                                  # run a flow once, exit 1 on any failed node")
	fmt.Println("  flowrun serve --file path | --name flow [--env path]")
	fmt.Println("                                                  # expose a flow's serverTrigger over HTTP")
	fmt.Println("  flowrun save  --file path --name flow           # store a flow under the data dir")
	fmt.Println("  flowrun list                                    # list stored flows")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	a, err := newApp()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "server":
		err = a.runServer()
	case "run":
		fs := flag.NewFlagSet("run", flag.ExitOnError)
		file := fs.String("file", "", "Path to flow JSON or YAML")
		name := fs.String("name", "", "Name of a stored flow")
		envPath := fs.String("env", "", "Path to environment file (.json, .yaml, .env)")
		asJSON := fs.Bool("json", false, "Print results and variables as JSON")
		_ = fs.Parse(os.Args[2:])
		var failed bool
		failed, err = a.runOnce(*file, *name, *envPath, *asJSON)
		if err == nil && failed {
			os.Exit(1)
		}
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ExitOnError)
		file := fs.String("file", "", "Path to flow JSON or YAML")
		name := fs.String("name", "", "Name of a stored flow")
		envPath := fs.String("env", "", "Path to environment file (.json, .yaml, .env)")
		_ = fs.Parse(os.Args[2:])
		err = a.serve(*file, *name, *envPath)
	case "save":
		fs := flag.NewFlagSet("save", flag.ExitOnError)
		file := fs.String("file", "", "Path to flow JSON or YAML")
		name := fs.String("name", "", "Name to store the flow under")
		_ = fs.Parse(os.Args[2:])
		if *file == "" || *name == "" {
			fmt.Println("--file and --name are required")
			os.Exit(2)
		}
		err = a.save(*file, *name)
	case "list":
		err = a.list()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func (a *app) runServer() error {
	r := server.NewRouter(a.eng, infra.NewFlowStore(a.cfg.FlowsDir()), a.log)
	fmt.Printf("🚀 Starting flowrun API Server on :%s\n", a.cfg.APIPort)
	return listen(&http.Server{Addr: ":" + a.cfg.APIPort, Handler: r}, a.log)
}

func (a *app) serve(file, name, envPath string) error {
	flow, err := a.loadFlow(file, name)
	if err != nil {
		return err
	}
	vars, err := env.Load(envPath)
	if err != nil {
		return err
	}
	t, err := server.TriggerConfig(flow)
	if err != nil {
		return err
	}
	r, err := server.NewTriggerRouter(a.eng, flow, vars, a.log)
	if err != nil {
		return err
	}
	fmt.Printf("📡 Serving flow on %s (trigger method %s, any method accepted) path %s\n", t.Addr(), t.Method, t.Path)
	return listen(&http.Server{Addr: t.Addr(), Handler: r}, a.log)
}

// listen runs srv until SIGINT/SIGTERM, then shuts it down gracefully.
func listen(srv *http.Server, log zerolog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
