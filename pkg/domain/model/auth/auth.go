package auth

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

// User is a dashboard operator. PasswordHash has the form salt:derivedKeyHex
// and never leaves the process: it is excluded from JSON and masked in logs.
type User struct {
	ID                 types.UserID `json:"id" yaml:"id"`
	Email              string       `json:"email" yaml:"email"`
	Name               string       `json:"name" yaml:"name"`
	Role               string       `json:"role" yaml:"role"`
	PasswordHash       string       `json:"-" yaml:"passwordHash" masq:"secret"`
	NotificationEmail  string       `json:"notificationEmail" yaml:"notificationEmail"`
	MustChangePassword bool         `json:"mustChangePassword" yaml:"mustChangePassword"`
	CreatedAt          time.Time    `json:"createdAt" yaml:"createdAt"`
	LastPasswordChange time.Time    `json:"lastPasswordChange" yaml:"lastPasswordChange"`
}

func (x *User) Validate() error {
	if x.ID == types.EmptyUserID {
		return goerr.New("empty user ID")
	}
	if !strings.Contains(x.Email, "@") {
		return goerr.New("invalid user email", goerr.V("user_id", x.ID), goerr.V("email", x.Email))
	}
	if x.PasswordHash == "" {
		return goerr.New("empty password hash", goerr.V("user_id", x.ID))
	}
	return nil
}

// EmailMatches compares emails case-insensitively.
func (x *User) EmailMatches(email string) bool {
	return strings.EqualFold(x.Email, email)
}

func (x *User) Clone() *User {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// PublicUser is the projection of User returned to clients.
type PublicUser struct {
	ID                 types.UserID `json:"id"`
	Email              string       `json:"email"`
	Name               string       `json:"name"`
	Role               string       `json:"role"`
	NotificationEmail  string       `json:"notificationEmail"`
	LastPasswordChange time.Time    `json:"lastPasswordChange"`
	CreatedAt          time.Time    `json:"createdAt"`
}

func (x *User) Public() *PublicUser {
	return &PublicUser{
		ID:                 x.ID,
		Email:              x.Email,
		Name:               x.Name,
		Role:               x.Role,
		NotificationEmail:  x.NotificationEmail,
		LastPasswordChange: x.LastPasswordChange,
		CreatedAt:          x.CreatedAt,
	}
}

// Metadata describes the client that opened a session.
type Metadata struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Device    string `json:"device,omitempty"`
}

// Session binds a bearer token to a user. Sessions carry no expiry and live
// until they are closed explicitly.
type Session struct {
	ID           types.SessionID `json:"id"`
	Token        Token           `json:"-" masq:"secret"`
	UserID       types.UserID    `json:"userId"`
	Email        string          `json:"email"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastActiveAt time.Time       `json:"lastActiveAt"`
	Metadata     Metadata        `json:"metadata"`
}

func NewSession(user *User, metadata Metadata, now time.Time) *Session {
	return &Session{
		ID:           types.NewSessionID(),
		Token:        NewToken(),
		UserID:       user.ID,
		Email:        user.Email,
		CreatedAt:    now,
		LastActiveAt: now,
		Metadata:     metadata,
	}
}

func (x *Session) Clone() *Session {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}

// Touch advances LastActiveAt to now. It never moves backwards, even if the
// wall clock does.
func (x *Session) Touch(now time.Time) {
	if now.After(x.LastActiveAt) {
		x.LastActiveAt = now
	}
}

// Principal is the result of a successful authentication check.
type Principal struct {
	User    *User
	Session *Session
}

func (x *Principal) Token() Token {
	return x.Session.Token
}
