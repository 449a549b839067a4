package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/repository"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

// Seed selects the YAML files that populate the in-memory repository. Empty
// paths fall back to the embedded seed data.
type Seed struct {
	alertsPath string
	usersPath  string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-alerts",
			Usage:       "YAML file with seed alerts (default: embedded sample data)",
			Category:    "Seed",
			Sources:     cli.EnvVars("IDSWATCH_SEED_ALERTS"),
			Destination: &x.alertsPath,
		},
		&cli.StringFlag{
			Name:        "seed-users",
			Usage:       "YAML file with seed users (default: embedded admin account)",
			Category:    "Seed",
			Sources:     cli.EnvVars("IDSWATCH_SEED_USERS"),
			Destination: &x.usersPath,
		},
	}
}

func (x Seed) LogValue() slog.Value {
	alerts, users := x.alertsPath, x.usersPath
	if alerts == "" {
		alerts = "(embedded)"
	}
	if users == "" {
		users = "(embedded)"
	}
	return slog.GroupValue(
		slog.String("alerts", alerts),
		slog.String("users", users),
	)
}

func readSeed(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.TV(errutil.PathKey, path))
	}
	return data, nil
}

func (x *Seed) LoadAlerts() ([]*alert.Alert, error) {
	data, err := readSeed(x.alertsPath, repository.DefaultAlertSeed())
	if err != nil {
		return nil, err
	}
	alerts, err := repository.LoadAlerts(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load seed alerts", goerr.TV(errutil.PathKey, x.alertsPath))
	}
	return alerts, nil
}

func (x *Seed) LoadUsers() ([]*auth.User, error) {
	data, err := readSeed(x.usersPath, repository.DefaultUserSeed())
	if err != nil {
		return nil, err
	}
	users, err := repository.LoadUsers(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load seed users", goerr.TV(errutil.PathKey, x.usersPath))
	}
	return users, nil
}

// Configure builds a memory repository holding the seed data.
func (x *Seed) Configure(ctx context.Context) (*repository.Memory, error) {
	alerts, err := x.LoadAlerts()
	if err != nil {
		return nil, err
	}
	users, err := x.LoadUsers()
	if err != nil {
		return nil, err
	}

	repo := repository.NewMemory()
	if err := repo.Seed(ctx, alerts, users); err != nil {
		return nil, goerr.Wrap(err, "failed to seed repository")
	}
	return repo, nil
}
