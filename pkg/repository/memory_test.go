package repository_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/repository"
)

func ptr[T any](v T) *T { return &v }

func newTestAlert(id types.AlertID, ts string, severity types.Severity) *alert.Alert {
	return &alert.Alert{
		ID:        id,
		Timestamp: ts,
		Severity:  severity,
		Type:      "Escaneo de Puertos",
		Status:    "Nueva",
	}
}

func newTestUser(id types.UserID, email string) *auth.User {
	return &auth.User{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		PasswordHash: "salt:key",
	}
}

func TestAlerts(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutAlert(ctx, newTestAlert("a-2", "2025-10-09T10:00:00", types.SeverityLow)))
	gt.NoError(t, repo.PutAlert(ctx, newTestAlert("a-1", "2025-10-08T10:00:00", types.SeverityHigh)))

	t.Run("list keeps insertion order", func(t *testing.T) {
		alerts, err := repo.ListAlerts(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, alerts).Length(2)
		gt.Equal(t, alerts[0].ID, types.AlertID("a-2"))
		gt.Equal(t, alerts[1].ID, types.AlertID("a-1"))
	})

	t.Run("replace keeps position", func(t *testing.T) {
		updated := newTestAlert("a-2", "2025-10-09T10:00:00", types.SeverityMedium)
		gt.NoError(t, repo.PutAlert(ctx, updated))
		alerts, err := repo.ListAlerts(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, alerts).Length(2)
		gt.Equal(t, alerts[0].Severity, types.SeverityMedium)
	})

	t.Run("unknown alert is nil", func(t *testing.T) {
		got, err := repo.GetAlert(ctx, "missing")
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})

	t.Run("invalid severity is rejected", func(t *testing.T) {
		gt.Error(t, repo.PutAlert(ctx, newTestAlert("a-3", "2025-10-09T10:00:00", "Critica")))
	})

	t.Run("returned alerts are copies", func(t *testing.T) {
		got, err := repo.GetAlert(ctx, "a-1")
		gt.NoError(t, err).Required()
		got.Status = "tampered"
		got.Actions = append(got.Actions, alert.Action{Type: "x"})

		again, err := repo.GetAlert(ctx, "a-1")
		gt.NoError(t, err).Required()
		gt.Equal(t, again.Status, "Nueva")
		gt.A(t, again.Actions).Length(0)
	})
}

func TestAppendAlertAction(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemory()
	gt.NoError(t, repo.PutAlert(ctx, newTestAlert("a-1", "2025-10-09T10:00:00", types.SeverityHigh)))

	t.Run("action and transition are stored together", func(t *testing.T) {
		got, err := repo.AppendAlertAction(ctx, "a-1", alert.Action{
			ID:           types.NewActionID(),
			Type:         "Aislamiento",
			Notes:        "host isolated",
			NextStatus:   ptr("En investigación"),
			Acknowledged: ptr(true),
		})
		gt.NoError(t, err).Required()
		gt.A(t, got.Actions).Length(1)
		gt.Equal(t, got.Status, "En investigación")
		gt.True(t, got.Acknowledged)

		stored, err := repo.GetAlert(ctx, "a-1")
		gt.NoError(t, err).Required()
		gt.A(t, stored.Actions).Length(1)
		gt.Equal(t, stored.Status, "En investigación")
	})

	t.Run("unknown alert", func(t *testing.T) {
		got, err := repo.AppendAlertAction(ctx, "missing", alert.Action{Type: "x", Notes: "y"})
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		gt.NoError(t, repo.PutAlert(ctx, newTestAlert("a-c", "2025-10-09T10:00:00", types.SeverityLow)))

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.AppendAlertAction(ctx, "a-c", alert.Action{
					ID:    types.NewActionID(),
					Type:  "Nota",
					Notes: "concurrent",
				})
				gt.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.GetAlert(ctx, "a-c")
		gt.NoError(t, err).Required()
		gt.A(t, got.Actions).Length(50)
	})
}

func TestUsers(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemory()
	user := newTestUser("u-1", "Admin@Colegio.edu.pe")
	gt.NoError(t, repo.PutUser(ctx, user))

	t.Run("email lookup ignores case", func(t *testing.T) {
		got, err := repo.GetUserByEmail(ctx, "admin@colegio.edu.pe")
		gt.NoError(t, err).Required()
		gt.Equal(t, got.ID, user.ID)

		got, err = repo.GetUserByEmail(ctx, "nobody@colegio.edu.pe")
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})

	t.Run("email must be unique", func(t *testing.T) {
		gt.Error(t, repo.PutUser(ctx, newTestUser("u-2", "ADMIN@colegio.edu.pe")))
	})

	t.Run("update commits on success", func(t *testing.T) {
		got, err := repo.UpdateUser(ctx, "u-1", func(u *auth.User) error {
			u.NotificationEmail = "soc@colegio.edu.pe"
			return nil
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, got.NotificationEmail, "soc@colegio.edu.pe")

		stored, err := repo.GetUser(ctx, "u-1")
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.NotificationEmail, "soc@colegio.edu.pe")
	})

	t.Run("update is discarded on error", func(t *testing.T) {
		_, err := repo.UpdateUser(ctx, "u-1", func(u *auth.User) error {
			u.NotificationEmail = "discarded@colegio.edu.pe"
			return errors.New("rejected")
		})
		gt.Error(t, err)

		stored, err := repo.GetUser(ctx, "u-1")
		gt.NoError(t, err).Required()
		gt.Equal(t, stored.NotificationEmail, "soc@colegio.edu.pe")
	})

	t.Run("update of unknown user", func(t *testing.T) {
		got, err := repo.UpdateUser(ctx, "missing", func(u *auth.User) error { return nil })
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})
}

func TestSessions(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemory()
	user := newTestUser("u-1", "admin@colegio.edu.pe")
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

	first := auth.NewSession(user, auth.Metadata{IP: "10.0.0.1"}, now)
	second := auth.NewSession(user, auth.Metadata{IP: "10.0.0.2"}, now.Add(time.Minute))
	other := auth.NewSession(newTestUser("u-2", "other@colegio.edu.pe"), auth.Metadata{}, now)
	gt.NoError(t, repo.PutSession(ctx, second))
	gt.NoError(t, repo.PutSession(ctx, first))
	gt.NoError(t, repo.PutSession(ctx, other))

	t.Run("list by user is ordered by creation", func(t *testing.T) {
		sessions, err := repo.ListSessionsByUser(ctx, "u-1")
		gt.NoError(t, err).Required()
		gt.A(t, sessions).Length(2)
		gt.Equal(t, sessions[0].ID, first.ID)
		gt.Equal(t, sessions[1].ID, second.ID)
	})

	t.Run("touch is monotonic", func(t *testing.T) {
		got, err := repo.TouchSession(ctx, first.Token, now.Add(time.Hour))
		gt.NoError(t, err).Required()
		gt.True(t, got.LastActiveAt.Equal(now.Add(time.Hour)))

		got, err = repo.TouchSession(ctx, first.Token, now)
		gt.NoError(t, err).Required()
		gt.True(t, got.LastActiveAt.Equal(now.Add(time.Hour)))
	})

	t.Run("touch of unknown token", func(t *testing.T) {
		got, err := repo.TouchSession(ctx, "unknown", now)
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.DeleteSession(ctx, first.Token)
		gt.NoError(t, err)
		gt.True(t, deleted)

		deleted, err = repo.DeleteSession(ctx, first.Token)
		gt.NoError(t, err)
		gt.False(t, deleted)

		got, err := repo.GetSession(ctx, first.Token)
		gt.NoError(t, err)
		gt.True(t, got == nil)
	})

	t.Run("session without token is rejected", func(t *testing.T) {
		gt.Error(t, repo.PutSession(ctx, &auth.Session{ID: "s"}))
	})
}
