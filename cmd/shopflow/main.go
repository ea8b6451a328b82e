package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/appcontext"
	"github.com/MiguelMialdeaDev/ShopFlow/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shopflow",
		Short: "Shopping catalog client with a persisted cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("SHOPFLOW_CONFIG"), "path to config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	holder, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cf := holder.Get()

	logger := newLogger(cf.LogLevel)

	app, err := appcontext.NewApplicationContext(cf, &logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 監聽退出訊號
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("received shutdown signal")
		cancel()
	}()

	repl := newREPL(app, os.Stdin, os.Stdout)
	replErr := repl.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}

	return replErr
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
