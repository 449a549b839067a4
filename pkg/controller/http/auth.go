package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mileusna/useragent"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

const unknownUserAgent = "desconocido"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" masq:"secret"`
}

type sessionView struct {
	ID           types.SessionID `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
	Metadata     auth.Metadata   `json:"metadata"`
	IsCurrent    *bool           `json:"isCurrent,omitempty"`
}

func newSessionView(s *auth.Session) *sessionView {
	return &sessionView{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		Metadata:     s.Metadata,
	}
}

type loginResponse struct {
	Token   auth.Token       `json:"token"`
	Session *sessionView     `json:"session"`
	User    *auth.PublicUser `json:"user"`
}

// clientMetadata describes the caller from its remote address and
// User-Agent header.
func clientMetadata(r *http.Request) auth.Metadata {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	raw := strings.TrimSpace(r.UserAgent())
	if raw == "" {
		return auth.Metadata{IP: ip, UserAgent: unknownUserAgent}
	}

	ua := useragent.Parse(raw)
	md := auth.Metadata{
		IP:        ip,
		UserAgent: raw,
		Browser:   ua.Name,
		OS:        ua.OS,
	}
	switch {
	case ua.Mobile:
		md.Device = "mobile"
	case ua.Tablet:
		md.Device = "tablet"
	case ua.Bot:
		md.Device = "bot"
	default:
		md.Device = "desktop"
	}
	return md
}

func authLoginHandler(uc UseCase, m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			m.login(loginInvalid)
			handleError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			m.login(loginInvalid)
			handleError(w, r, errs.Validation("email and password are required"))
			return
		}

		session, user, err := uc.Login(r.Context(), req.Email, req.Password, clientMetadata(r))
		if err != nil {
			if goerr.HasTag(err, errs.TagRateLimit) {
				m.login(loginThrottled)
			} else {
				m.login(loginError)
			}
			handleError(w, r, err)
			return
		}
		if session == nil || user == nil {
			m.login(loginRejected)
			writeError(w, r, http.StatusUnauthorized, errs.MsgInvalidCredentials)
			return
		}

		m.login(loginSuccess)
		writeJSON(w, r, http.StatusOK, loginResponse{
			Token:   session.Token,
			Session: newSessionView(session),
			User:    user.Public(),
		})
	}
}

func authLogoutHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if _, err := uc.CloseSession(r.Context(), principal.Token()); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"user": principal.User.Public()})
	}
}

func authSessionsHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		sessions, err := uc.ListSessions(r.Context(), principal.User.ID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		views := make([]*sessionView, 0, len(sessions))
		for _, s := range sessions {
			v := newSessionView(s)
			current := s.Token == principal.Token()
			v.IsCurrent = &current
			views = append(views, v)
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"sessions": views})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" masq:"secret"`
	NewPassword     string `json:"newPassword" masq:"secret"`
}

func authChangePasswordHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req changePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			handleError(w, r, errs.Validation("currentPassword and newPassword are required"))
			return
		}

		if err := uc.ChangePassword(r.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authNotificationEmailHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := principalFrom(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		email, err := uc.UpdateNotificationEmail(r.Context(), principal.User.ID, req.Email)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"email": email})
	}
}
