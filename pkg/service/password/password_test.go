package password_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/idswatch/pkg/service/password"
	"github.com/stretchr/testify/assert"
)

const (
	knownSalt = "0123456789abcdef0123456789abcdef"
	knownHash = knownSalt + ":b73d71a9980ff5c0b357becdf2a10bba8841da7a1ad820ce28e15f2b8622fcdb8942397c8791c6c12807bb5afbd4a9ec855dfa0207d3e4b753a103246e03c0ee"
)

func TestHashWithSalt(t *testing.T) {
	got, err := password.HashWithSalt("admin123", knownSalt)
	gt.NoError(t, err).Required()
	gt.Equal(t, got, knownHash)

	_, err = password.HashWithSalt("admin123", "")
	gt.Error(t, err)
}

func TestHash(t *testing.T) {
	h1, err := password.Hash("admin123")
	gt.NoError(t, err).Required()
	h2, err := password.Hash("admin123")
	gt.NoError(t, err).Required()

	gt.NotEqual(t, h1, h2)
	salt, key, ok := strings.Cut(h1, ":")
	gt.True(t, ok)
	gt.Equal(t, len(salt), password.SaltBytes*2)
	gt.Equal(t, len(key), password.KeyLength*2)
	gt.True(t, password.IsHash(h1))
}

func TestVerify(t *testing.T) {
	testCases := map[string]struct {
		plain  string
		stored string
		want   bool
	}{
		"known vector":     {"admin123", knownHash, true},
		"wrong password":   {"admin124", knownHash, false},
		"no separator":     {"admin123", "nocolon", false},
		"empty salt":       {"admin123", ":" + strings.Repeat("00", 64), false},
		"non hex key":      {"admin123", knownSalt + ":zz", false},
		"short key":        {"admin123", knownSalt + ":abcd", false},
		"empty stored":     {"admin123", "", false},
		"empty plain text": {"", knownHash, false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, password.Verify(tc.plain, tc.stored))
		})
	}
}

func TestIsHash(t *testing.T) {
	gt.True(t, password.IsHash(knownHash))
	gt.False(t, password.IsHash("admin123"))
	gt.False(t, password.IsHash(knownSalt+":abcd"))
}

func TestLongEnough(t *testing.T) {
	testCases := map[string]struct {
		plain string
		want  bool
	}{
		"ascii at minimum":     {"abcdefgh", true},
		"ascii one short":      {"abcdefg", false},
		"multibyte one short":  {"ñññññññ", false},
		"multibyte at minimum": {"ññññññññ", true},
		"cjk one short":        {"パスワード長い", false},
		"empty":                {"", false},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			gt.Equal(t, password.LongEnough(tc.plain), tc.want)
		})
	}
}
