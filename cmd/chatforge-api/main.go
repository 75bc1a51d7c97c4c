package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/chatforge/chatforge/pkg/cmd"
	"github.com/chatforge/chatforge/pkg/log"
	"github.com/chatforge/chatforge/pkg/otelhelper"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "chatforge-api",
		Usage:                 "Create and manage chatbot conversation flows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Flow store URL (file://<dir> or supabase://<project-ref>.supabase.co)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Optional Redis URL used as a flow list cache by the hosted store",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "enable-otel",
				Usage:   "Export traces over OTLP HTTP",
				Sources: cli.EnvVars("ENABLE_OTEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			if command.Bool("enable-otel") {
				if _, err := otelhelper.NewTracer(ctx, "chatforge-api"); err != nil {
					return err
				}
			}

			logger.InfoContext(ctx, "Initializing ChatForge API",
				"provider", cmd.ParseProvider(command.String("database-url")))

			persistence := cmd.NewPersistence(
				command.String("database-url"),
				command.String("redis-url"),
				logger,
			)

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			api := NewAPI(logger, persistence, eventBus)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
