package repository

import (
	"context"
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/service/password"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed seed/alerts.yaml
	defaultAlerts []byte

	//go:embed seed/users.yaml
	defaultUsers []byte
)

func DefaultAlertSeed() []byte { return defaultAlerts }
func DefaultUserSeed() []byte  { return defaultUsers }

// userRecord accepts either a ready hash or a plain password that is hashed
// while loading.
type userRecord struct {
	auth.User `yaml:",inline"`
	Password  string `yaml:"password" masq:"secret"`
}

// LoadAlerts decodes a YAML list of alerts. Every alert must carry a unique
// ID and a known severity.
func LoadAlerts(data []byte) ([]*alert.Alert, error) {
	var alerts []*alert.Alert
	if err := yaml.Unmarshal(data, &alerts); err != nil {
		return nil, goerr.Wrap(err, "failed to decode alert seed")
	}

	seen := make(map[types.AlertID]bool, len(alerts))
	for i, a := range alerts {
		if a == nil {
			return nil, goerr.New("empty alert entry", goerr.TV(errutil.IndexKey, i))
		}
		if err := a.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid alert in seed", goerr.TV(errutil.IndexKey, i))
		}
		if seen[a.ID] {
			return nil, goerr.New("duplicated alert ID in seed",
				goerr.TV(errutil.IndexKey, i),
				goerr.TV(errutil.AlertIDKey, a.ID))
		}
		seen[a.ID] = true
		if a.Actions == nil {
			a.Actions = []alert.Action{}
		}
	}
	return alerts, nil
}

func LoadUsers(data []byte) ([]*auth.User, error) {
	var records []userRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user seed")
	}

	users := make([]*auth.User, 0, len(records))
	for i, rec := range records {
		user := rec.User
		switch {
		case user.PasswordHash != "":
			if !password.IsHash(user.PasswordHash) {
				return nil, goerr.New("malformed password hash in seed",
					goerr.TV(errutil.IndexKey, i),
					goerr.TV(errutil.UserIDKey, user.ID))
			}
		case rec.Password != "":
			hash, err := password.Hash(rec.Password)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to hash seed password", goerr.TV(errutil.UserIDKey, user.ID))
			}
			user.PasswordHash = hash
		}

		if err := user.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid user in seed", goerr.TV(errutil.IndexKey, i))
		}
		users = append(users, &user)
	}
	return users, nil
}

// Seed stores alerts and users into the repository.
func (r *Memory) Seed(ctx context.Context, alerts []*alert.Alert, users []*auth.User) error {
	for _, a := range alerts {
		if err := r.PutAlert(ctx, a); err != nil {
			return err
		}
	}
	for _, u := range users {
		if err := r.PutUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// NewSeededMemory returns a Memory loaded with the embedded alerts and users.
func NewSeededMemory(ctx context.Context) (*Memory, error) {
	alerts, err := LoadAlerts(defaultAlerts)
	if err != nil {
		return nil, err
	}
	users, err := LoadUsers(defaultUsers)
	if err != nil {
		return nil, err
	}

	repo := NewMemory()
	if err := repo.Seed(ctx, alerts, users); err != nil {
		return nil, err
	}
	return repo, nil
}
