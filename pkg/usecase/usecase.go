package usecase

import (
	"github.com/secmon-lab/idswatch/pkg/domain/interfaces"
	"github.com/secmon-lab/idswatch/pkg/domain/model/help"
	"github.com/secmon-lab/idswatch/pkg/repository"
)

type UseCases struct {
	repository interfaces.Repository
	help       *help.Content

	// nil when login throttling is disabled
	loginLimiter *loginLimiter
}

var _ interfaces.AlertUsecases = &UseCases{}
var _ interfaces.AuthUsecases = &UseCases{}
var _ interfaces.ReportUsecases = &UseCases{}

type Option func(*UseCases)

func WithRepository(repository interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repository
	}
}

func WithHelpContent(content *help.Content) Option {
	return func(u *UseCases) {
		u.help = content
	}
}

// WithLoginRateLimit throttles login attempts per client IP. A non-positive
// rps disables throttling.
func WithLoginRateLimit(rps float64, burst int) Option {
	return func(u *UseCases) {
		if rps <= 0 {
			u.loginLimiter = nil
			return
		}
		u.loginLimiter = newLoginLimiter(rps, burst)
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		repository: repository.NewMemory(),
	}

	for _, opt := range opts {
		opt(u)
	}

	if u.help == nil {
		u.help = help.Default()
	}

	return u
}
