package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pollsay/pollsay/cmd/app/commands"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				return commands.RunMigrations(
					container.Logger(),
					container.Config().DBDriver,
					container.Config().DBConnectionString,
				)
			},
		},
		{
			Name:  "keypair",
			Usage: "Print a fresh organization keypair without storing it (for integration testing)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer closeContainer(ctx, container)

				encryption, err := container.EncryptionService()
				if err != nil {
					return err
				}

				return commands.RunGenerateKeyPair(
					encryption,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "pseudonym",
			Usage: "Print the pseudonym of a respondent email within an organization",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Respondent email",
				},
				orgIDFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunPseudonym(
					commands.DefaultIO().Writer,
					cmd.String("email"),
					cmd.String("org"),
					cmd.String("format"),
				)
			},
		},
	}
}
