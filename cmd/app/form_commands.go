package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pollsay/pollsay/cmd/app/commands"
)

func getFormCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "form",
			Usage: "Create and inspect forms",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create a form",
					Flags: []cli.Flag{
						orgIDFlag(),
						&cli.StringFlag{
							Name:     "title",
							Aliases:  []string{"t"},
							Required: true,
							Usage:    "Form title",
						},
						&cli.StringFlag{
							Name:  "fields",
							Usage: "JSON array of fields (read from stdin when omitted)",
						},
						&cli.BoolFlag{
							Name:  "encrypted",
							Value: false,
							Usage: "Encrypt the form definition and its responses under the organization key",
						},
						formatFlag(),
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer()
						if err != nil {
							return err
						}
						defer closeContainer(ctx, container)

						formUseCase, err := container.FormUseCase()
						if err != nil {
							return err
						}

						return commands.RunCreateForm(
							ctx,
							formUseCase,
							container.Logger(),
							commands.DefaultIO(),
							cmd.String("org"),
							cmd.String("title"),
							cmd.String("fields"),
							cmd.Bool("encrypted"),
							cmd.String("format"),
						)
					},
				},
				{
					Name:  "show",
					Usage: "Print the stored metadata of a form",
					Flags: []cli.Flag{formIDFlag(), formatFlag()},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer()
						if err != nil {
							return err
						}
						defer closeContainer(ctx, container)

						formUseCase, err := container.FormUseCase()
						if err != nil {
							return err
						}

						return commands.RunShowForm(
							ctx,
							formUseCase,
							commands.DefaultIO().Writer,
							cmd.String("form"),
							cmd.String("format"),
						)
					},
				},
				{
					Name:  "definition",
					Usage: "Print the fields of a form, decrypting them when needed",
					Flags: []cli.Flag{
						formIDFlag(),
						passphraseFlag("passphrase", passphraseEnv, "Organization passphrase for encrypted forms"),
						formatFlag(),
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer()
						if err != nil {
							return err
						}
						defer closeContainer(ctx, container)

						formUseCase, err := container.FormUseCase()
						if err != nil {
							return err
						}
						orgKeyUseCase, err := container.OrgKeyUseCase()
						if err != nil {
							return err
						}

						return commands.RunShowDefinition(
							ctx,
							formUseCase,
							orgKeyUseCase,
							commands.DefaultIO(),
							cmd.String("form"),
							cmd.String("passphrase"),
							cmd.String("format"),
						)
					},
				},
			},
		},
		{
			Name:  "response",
			Usage: "Submit and export form responses",
			Commands: []*cli.Command{
				{
					Name:  "submit",
					Usage: "Submit a response to a form",
					Flags: []cli.Flag{
						formIDFlag(),
						&cli.StringFlag{
							Name:     "email",
							Aliases:  []string{"e"},
							Required: true,
							Usage:    "Respondent email (stored only as a pseudonym)",
						},
						&cli.StringFlag{
							Name:  "answers",
							Usage: "JSON object of answers keyed by question (read from stdin when omitted)",
						},
						formatFlag(),
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer()
						if err != nil {
							return err
						}
						defer closeContainer(ctx, container)

						formUseCase, err := container.FormUseCase()
						if err != nil {
							return err
						}

						return commands.RunSubmitResponse(
							ctx,
							formUseCase,
							container.Logger(),
							commands.DefaultIO(),
							cmd.String("form"),
							cmd.String("email"),
							cmd.String("answers"),
							cmd.String("format"),
						)
					},
				},
				{
					Name:  "export",
					Usage: "Print every response of a form in the clear",
					Flags: []cli.Flag{
						formIDFlag(),
						passphraseFlag("passphrase", passphraseEnv, "Organization passphrase for encrypted forms"),
						formatFlag(),
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						container, err := newContainer()
						if err != nil {
							return err
						}
						defer closeContainer(ctx, container)

						formUseCase, err := container.FormUseCase()
						if err != nil {
							return err
						}
						orgKeyUseCase, err := container.OrgKeyUseCase()
						if err != nil {
							return err
						}

						return commands.RunExportResponses(
							ctx,
							formUseCase,
							orgKeyUseCase,
							container.Logger(),
							commands.DefaultIO(),
							cmd.String("form"),
							cmd.String("passphrase"),
							cmd.String("format"),
						)
					},
				},
			},
		},
	}
}
