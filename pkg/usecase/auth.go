package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/service/password"
	"github.com/secmon-lab/idswatch/pkg/utils/clock"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
)

const bearerPrefix = "Bearer "

// Authenticate returns the user whose email and password match, or nil.
func (uc *UseCases) Authenticate(ctx context.Context, email, plain string) (*auth.User, error) {
	user, err := uc.repository.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.TV(errutil.EmailKey, email))
	}
	if user == nil || !password.Verify(plain, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

func (uc *UseCases) CreateSession(ctx context.Context, user *auth.User, metadata auth.Metadata) (*auth.Session, error) {
	session := auth.NewSession(user, metadata, clock.Now(ctx))
	if err := uc.repository.PutSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to put session", goerr.TV(errutil.UserIDKey, user.ID))
	}
	return session, nil
}

// Login authenticates and opens a session. Both returned values are nil when
// the credentials do not match. A rate limit error is returned when the
// client IP exceeded its login budget.
func (uc *UseCases) Login(ctx context.Context, email, plain string, metadata auth.Metadata) (*auth.Session, *auth.User, error) {
	if uc.loginLimiter != nil && !uc.loginLimiter.allow(metadata.IP, clock.Now(ctx)) {
		logging.From(ctx).Warn("login throttled", slog.String("ip", metadata.IP))
		return nil, nil, goerr.New(errs.MsgTooManyRequests,
			goerr.T(errs.TagRateLimit),
			goerr.TV(errutil.RemoteAddrKey, metadata.IP))
	}

	user, err := uc.Authenticate(ctx, email, plain)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		logging.From(ctx).Info("login rejected", slog.String("ip", metadata.IP))
		return nil, nil, nil
	}

	session, err := uc.CreateSession(ctx, user, metadata)
	if err != nil {
		return nil, nil, err
	}

	logging.From(ctx).Info("session created",
		slog.String("user_id", user.ID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("ip", metadata.IP),
		slog.String("browser", metadata.Browser),
	)
	return session, user, nil
}

// RequireAuth resolves the caller from an Authorization header value. The
// session is touched on every successful call. It returns (nil, nil) when
// the header is missing or malformed, the token is unknown, or the user no
// longer exists.
func (uc *UseCases) RequireAuth(ctx context.Context, authorization string) (*auth.Principal, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, nil
	}
	token := auth.Token(strings.TrimSpace(authorization[len(bearerPrefix):]))
	if token == auth.EmptyToken {
		return nil, nil
	}

	session, err := uc.repository.TouchSession(ctx, token, clock.Now(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to touch session")
	}
	if session == nil {
		return nil, nil
	}

	user, err := uc.repository.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session user",
			goerr.TV(errutil.SessionIDKey, session.ID),
			goerr.TV(errutil.UserIDKey, session.UserID))
	}
	if user == nil {
		return nil, nil
	}

	return &auth.Principal{User: user, Session: session}, nil
}

func (uc *UseCases) CloseSession(ctx context.Context, token auth.Token) (bool, error) {
	deleted, err := uc.repository.DeleteSession(ctx, token)
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete session")
	}
	return deleted, nil
}

func (uc *UseCases) ListSessions(ctx context.Context, userID types.UserID) ([]*auth.Session, error) {
	sessions, err := uc.repository.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions", goerr.TV(errutil.UserIDKey, userID))
	}
	if sessions == nil {
		sessions = []*auth.Session{}
	}
	return sessions, nil
}

// ChangePassword replaces the user's password after verifying the current
// one. Verification and update happen under one write on the user. Open
// sessions of the user stay valid.
func (uc *UseCases) ChangePassword(ctx context.Context, userID types.UserID, current, next string) error {
	if !password.LongEnough(next) {
		return errs.Validation("new password must be at least 8 characters")
	}

	now := clock.Now(ctx)
	updated, err := uc.repository.UpdateUser(ctx, userID, func(user *auth.User) error {
		if !password.Verify(current, user.PasswordHash) {
			return errs.Validation("current password is incorrect")
		}
		hash, err := password.Hash(next)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.LastPasswordChange = now
		user.MustChangePassword = false
		return nil
	})
	if err != nil {
		if goerr.HasTag(err, errs.TagValidation) {
			return err
		}
		return goerr.Wrap(err, "failed to change password", goerr.TV(errutil.UserIDKey, userID))
	}
	if updated == nil {
		return errs.Validation("user not found")
	}

	logging.From(ctx).Info("password changed")
	return nil
}

// UpdateNotificationEmail only checks that email carries an '@'.
func (uc *UseCases) UpdateNotificationEmail(ctx context.Context, userID types.UserID, email string) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", errs.Validation("a valid email is required")
	}

	updated, err := uc.repository.UpdateUser(ctx, userID, func(user *auth.User) error {
		user.NotificationEmail = email
		return nil
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to update notification email", goerr.TV(errutil.UserIDKey, userID))
	}
	if updated == nil {
		return "", errs.Validation("user not found")
	}
	return updated.NotificationEmail, nil
}
