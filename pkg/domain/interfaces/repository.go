package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

// Repository is the single store behind the dashboard. Getters return deep
// copies and report an unknown key as (nil, nil).
type Repository interface {
	AlertRepository
	UserRepository
	SessionRepository
}

type AlertRepository interface {
	// ListAlerts returns a snapshot of every alert in insertion order.
	ListAlerts(ctx context.Context) ([]*alert.Alert, error)
	GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error)
	PutAlert(ctx context.Context, a *alert.Alert) error
	// AppendAlertAction applies action to the alert as one write and returns
	// the updated alert.
	AppendAlertAction(ctx context.Context, alertID types.AlertID, action alert.Action) (*alert.Alert, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, userID types.UserID) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	PutUser(ctx context.Context, user *auth.User) error
	// UpdateUser runs fn on the stored user while holding the write lock. The
	// change is committed only when fn returns nil.
	UpdateUser(ctx context.Context, userID types.UserID, fn func(user *auth.User) error) (*auth.User, error)
}

type SessionRepository interface {
	PutSession(ctx context.Context, session *auth.Session) error
	GetSession(ctx context.Context, token auth.Token) (*auth.Session, error)
	// TouchSession advances lastActiveAt and returns the session.
	TouchSession(ctx context.Context, token auth.Token, now time.Time) (*auth.Session, error)
	DeleteSession(ctx context.Context, token auth.Token) (bool, error)
	ListSessionsByUser(ctx context.Context, userID types.UserID) ([]*auth.Session, error)
}
