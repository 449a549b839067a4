package types

import "github.com/google/uuid"

// SessionID is the public identifier of a login session. It is never usable
// as a credential; the bearer token is.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func (x SessionID) String() string {
	return string(x)
}

type UserID string

func (x UserID) String() string {
	return string(x)
}

const (
	EmptyUserID UserID = ""
)
