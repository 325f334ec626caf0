package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pollsay/pollsay/cmd/app/commands"
)

const passphraseEnv = "POLLSAY_PASSPHRASE"

func getOrgCommands() *cli.Command {
	return &cli.Command{
		Name:  "org",
		Usage: "Manage organization keypairs",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Generate the first keypair of an organization",
				Flags: []cli.Flag{
					orgIDFlag(),
					passphraseFlag("passphrase", passphraseEnv, "Passphrase protecting the private key"),
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					orgKeyUseCase, err := container.OrgKeyUseCase()
					if err != nil {
						return err
					}

					return commands.RunInitOrgKey(
						ctx,
						orgKeyUseCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("org"),
						cmd.String("passphrase"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "public-key",
				Usage: "Print the active public key of an organization",
				Flags: []cli.Flag{orgIDFlag(), formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					orgKeyUseCase, err := container.OrgKeyUseCase()
					if err != nil {
						return err
					}

					return commands.RunShowPublicKey(
						ctx,
						orgKeyUseCase,
						commands.DefaultIO().Writer,
						cmd.String("org"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "rotate",
				Usage: "Replace the organization keypair and re-wrap every stored form and response key",
				Flags: []cli.Flag{
					orgIDFlag(),
					passphraseFlag("passphrase", passphraseEnv, "Current passphrase"),
					formatFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					orgKeyUseCase, err := container.OrgKeyUseCase()
					if err != nil {
						return err
					}

					return commands.RunRotateOrgKey(
						ctx,
						orgKeyUseCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("org"),
						cmd.String("passphrase"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "change-passphrase",
				Usage: "Re-wrap the organization private key under a new passphrase",
				Flags: []cli.Flag{
					orgIDFlag(),
					passphraseFlag("passphrase", passphraseEnv, "Current passphrase"),
					passphraseFlag("new-passphrase", "POLLSAY_NEW_PASSPHRASE", "New passphrase"),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					orgKeyUseCase, err := container.OrgKeyUseCase()
					if err != nil {
						return err
					}

					return commands.RunChangePassphrase(
						ctx,
						orgKeyUseCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("org"),
						cmd.String("passphrase"),
						cmd.String("new-passphrase"),
					)
				},
			},
			{
				Name:  "recover",
				Usage: "Restore the organization private key from its KMS escrow copy",
				Flags: []cli.Flag{
					orgIDFlag(),
					passphraseFlag("new-passphrase", "POLLSAY_NEW_PASSPHRASE", "New passphrase"),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					container, err := newContainer()
					if err != nil {
						return err
					}
					defer closeContainer(ctx, container)

					orgKeyUseCase, err := container.OrgKeyUseCase()
					if err != nil {
						return err
					}

					return commands.RunRecoverOrgKey(
						ctx,
						orgKeyUseCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("org"),
						cmd.String("new-passphrase"),
					)
				},
			},
		},
	}
}
