package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/pollsay/pollsay/internal/app"
	"github.com/pollsay/pollsay/internal/config"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands()...)
	cmds = append(cmds, getOrgCommands())
	cmds = append(cmds, getFormCommands()...)
	cmds = append(cmds, getProfileCommands())
	return cmds
}

// newContainer loads and validates the configuration and builds the dependency container.
func newContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(ctx context.Context, container *app.Container) {
	if err := container.Shutdown(ctx); err != nil {
		container.Logger().Error("failed to shutdown container", slog.Any("error", err))
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func orgIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "org",
		Aliases:  []string{"o"},
		Required: true,
		Usage:    "Organization ID",
	}
}

func formIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "form",
		Required: true,
		Usage:    "Form ID (UUID)",
	}
}

// passphraseFlag is read from the environment when set there, and prompted for otherwise.
func passphraseFlag(name, envVar, usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    name,
		Usage:   usage + " (prompted when omitted)",
		Sources: cli.EnvVars(envVar),
	}
}
