package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var configPath, env string
	var listCommands, skipSeed bool

	flagSet := pflag.NewFlagSet("studio", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", config.BaseConfigFile, "path to the base configuration file")
	flagSet.StringVar(&env, "env", "", "configuration overlay to apply (default: $SERVICE_ENV)")
	flagSet.BoolVar(&listCommands, "list-commands", false, "print the bridge command names and exit")
	flagSet.BoolVar(&skipSeed, "no-seed", false, "do not register the configured seed agents")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.Load(configPath, env)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	runtime, err := NewRuntime(cfg, stderr)
	if err != nil {
		return err
	}

	domain, err := NewDomain(runtime)
	if err != nil {
		return err
	}

	router := bridge.NewRouter(runtime.Logger)
	registerCommands(router, runtime, domain, cfg)

	if listCommands {
		for _, name := range router.Commands() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipSeed {
		if err := seedAgents(ctx, domain.Agents, cfg.Seed, runtime.Logger); err != nil {
			return err
		}
	}

	srv := bridge.NewServer(router, bridge.Config{
		MaxConcurrency: cfg.Bridge.MaxConcurrency,
		MaxMessageSize: cfg.Bridge.MaxMessageSizeBytes(),
	}, runtime.Logger)

	err = srv.Serve(ctx, stdin, stdout)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("bridge: %w", err)
	}

	runtime.Logger.Info("studio stopped")
	return nil
}
