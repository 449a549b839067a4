package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/interfaces"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
)

// Memory keeps every collection in process memory. Each collection has its
// own lock so a slow alert scan never blocks a login.
type Memory struct {
	alertMu   sync.RWMutex
	userMu    sync.RWMutex
	sessionMu sync.RWMutex

	alerts     []*alert.Alert
	alertIndex map[types.AlertID]int
	users      map[types.UserID]*auth.User
	sessions   map[auth.Token]*auth.Session

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		alertIndex: make(map[types.AlertID]int),
		users:      make(map[types.UserID]*auth.User),
		sessions:   make(map[auth.Token]*auth.Session),
		eb:         goerr.NewBuilder(goerr.TV(errutil.RepositoryKey, "memory")),
	}
}

func (r *Memory) ListAlerts(ctx context.Context) ([]*alert.Alert, error) {
	r.alertMu.RLock()
	defer r.alertMu.RUnlock()

	results := make([]*alert.Alert, len(r.alerts))
	for i, a := range r.alerts {
		results[i] = a.Clone()
	}
	return results, nil
}

func (r *Memory) GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error) {
	r.alertMu.RLock()
	defer r.alertMu.RUnlock()

	idx, ok := r.alertIndex[alertID]
	if !ok {
		return nil, nil
	}
	return r.alerts[idx].Clone(), nil
}

// PutAlert inserts a new alert at the end of the collection or replaces an
// existing one in place.
func (r *Memory) PutAlert(ctx context.Context, a *alert.Alert) error {
	if a == nil {
		return r.eb.New("nil alert")
	}
	if err := a.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert", goerr.TV(errutil.AlertIDKey, a.ID))
	}

	r.alertMu.Lock()
	defer r.alertMu.Unlock()

	if idx, ok := r.alertIndex[a.ID]; ok {
		r.alerts[idx] = a.Clone()
		return nil
	}
	r.alertIndex[a.ID] = len(r.alerts)
	r.alerts = append(r.alerts, a.Clone())
	return nil
}

func (r *Memory) AppendAlertAction(ctx context.Context, alertID types.AlertID, action alert.Action) (*alert.Alert, error) {
	r.alertMu.Lock()
	defer r.alertMu.Unlock()

	idx, ok := r.alertIndex[alertID]
	if !ok {
		return nil, nil
	}
	r.alerts[idx].ApplyAction(action)
	return r.alerts[idx].Clone(), nil
}

func (r *Memory) GetUser(ctx context.Context, userID types.UserID) (*auth.User, error) {
	r.userMu.RLock()
	defer r.userMu.RUnlock()

	return r.users[userID].Clone(), nil
}

func (r *Memory) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.userMu.RLock()
	defer r.userMu.RUnlock()

	for _, u := range r.users {
		if u.EmailMatches(email) {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (r *Memory) PutUser(ctx context.Context, user *auth.User) error {
	if user == nil {
		return r.eb.New("nil user")
	}
	if err := user.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid user", goerr.TV(errutil.UserIDKey, user.ID))
	}

	r.userMu.Lock()
	defer r.userMu.Unlock()

	for _, u := range r.users {
		if u.ID != user.ID && u.EmailMatches(user.Email) {
			return r.eb.New("email already registered",
				goerr.TV(errutil.UserIDKey, user.ID),
				goerr.TV(errutil.EmailKey, user.Email))
		}
	}
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *Memory) UpdateUser(ctx context.Context, userID types.UserID, fn func(user *auth.User) error) (*auth.User, error) {
	r.userMu.Lock()
	defer r.userMu.Unlock()

	current, ok := r.users[userID]
	if !ok {
		return nil, nil
	}

	draft := current.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	if draft.ID != userID {
		return nil, r.eb.New("user ID must not change", goerr.TV(errutil.UserIDKey, userID))
	}
	if err := draft.Validate(); err != nil {
		return nil, r.eb.Wrap(err, "invalid user update", goerr.TV(errutil.UserIDKey, userID))
	}

	r.users[userID] = draft
	return draft.Clone(), nil
}

func (r *Memory) PutSession(ctx context.Context, session *auth.Session) error {
	if session == nil || session.Token == auth.EmptyToken {
		return r.eb.New("session without token")
	}

	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	r.sessions[session.Token] = session.Clone()
	return nil
}

func (r *Memory) GetSession(ctx context.Context, token auth.Token) (*auth.Session, error) {
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	return r.sessions[token].Clone(), nil
}

func (r *Memory) TouchSession(ctx context.Context, token auth.Token, now time.Time) (*auth.Session, error) {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	session.Touch(now)
	return session.Clone(), nil
}

func (r *Memory) DeleteSession(ctx context.Context, token auth.Token) (bool, error) {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()

	if _, ok := r.sessions[token]; !ok {
		return false, nil
	}
	delete(r.sessions, token)
	return true, nil
}

// ListSessionsByUser returns the user's sessions, oldest first.
func (r *Memory) ListSessionsByUser(ctx context.Context, userID types.UserID) ([]*auth.Session, error) {
	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()

	var results []*auth.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			results = append(results, s.Clone())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID < results[j].ID
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}
