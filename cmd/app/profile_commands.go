package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pollsay/pollsay/cmd/app/commands"
)

const passwordEnv = "POLLSAY_PASSWORD"

func getProfileCommands() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage encrypted user profiles",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Register a user profile",
				Flags: []cli.Flag{
					userIDFlag(),
					orgIDFlag(),
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "User email",
					},
					passphraseFlag("password", passwordEnv, "User password"),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					profileUseCase, err := container.ProfileUseCase()
					if err != nil {
						return err
					}

					return commands.RunRegisterProfile(
						ctx,
						profileUseCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("user"),
						cmd.String("org"),
						cmd.String("email"),
						cmd.String("password"),
					)
				},
			},
			{
				Name:  "show",
				Usage: "Decrypt and print a user profile",
				Flags: []cli.Flag{
					userIDFlag(),
					passphraseFlag("password", passwordEnv, "User password"),
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					profileUseCase, err := container.ProfileUseCase()
					if err != nil {
						return err
					}

					return commands.RunShowProfile(
						ctx,
						profileUseCase,
						commands.DefaultIO(),
						cmd.String("user"),
						cmd.String("password"),
						cmd.String("format"),
					)
				},
			},
		},
	}
}

func userIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Required: true,
		Usage:    "User ID",
	}
}
