package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/m-mizutani/goerr/v2"
)

// TokenBytes is the amount of random data behind a bearer token. Tokens are
// hex-encoded, so their string form is twice as long.
const TokenBytes = 48

// Token is the opaque bearer credential of a session.
type Token string

func (x Token) String() string {
	return string(x)
}

func NewToken() Token {
	randomBytes := make([]byte, TokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(goerr.Wrap(err, "failed to generate random session token"))
	}
	return Token(hex.EncodeToString(randomBytes))
}

const (
	EmptyToken Token = ""
)
