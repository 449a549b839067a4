package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/service/password"
	"github.com/urfave/cli/v3"
)

func cmdHashPassword() *cli.Command {
	var plain string

	return &cli.Command{
		Name:  "hash-password",
		Usage: "Print a salt:key password hash for seed user files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Usage:       "Plain text password",
				Required:    true,
				Sources:     cli.EnvVars("IDSWATCH_PASSWORD"),
				Destination: &plain,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !password.LongEnough(plain) {
				return goerr.New("password is too short", goerr.V("min_length", password.MinLength))
			}
			hash, err := password.Hash(plain)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.Root().Writer, hash); err != nil {
				return goerr.Wrap(err, "failed to write hash")
			}
			return nil
		},
	}
}
