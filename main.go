package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"vfs-simulator/config"
	"vfs-simulator/fs"
	"vfs-simulator/logging"
	"vfs-simulator/shell"
	"vfs-simulator/web"
)

func main() {
	configPath := flag.String("config", "", "path to "+config.FileName)
	serve := flag.Bool("serve", false, "serve the browser terminal instead of reading stdin")
	addr := flag.String("addr", "", "listen address for -serve (overrides server.listen_addr)")
	noColor := flag.Bool("no-color", false, "disable coloured prompts")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		color.Red("[ERROR] Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}
	if *noColor {
		cfg.Terminal.Color = false
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	}); err != nil {
		color.Red("[ERROR] Failed to initialize logging: %v", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := web.NewServer(cfg, log).Run(ctx); err != nil {
			log.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
		return
	}

	in := shell.New(fs.NewSession(cfg.Session.RootName), shell.WithLogger(log))
	repl := &shell.REPL{In: os.Stdin, Out: os.Stdout, Color: cfg.Terminal.Color}
	if err := repl.Run(ctx, in); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
		os.Exit(1)
	}
}
