package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	server "github.com/secmon-lab/idswatch/pkg/controller/http"
	"github.com/secmon-lab/idswatch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const (
	defaultLoginRate  = 1.0
	defaultLoginBurst = 5
)

// WebAPI holds the HTTP surface settings of the serve command.
type WebAPI struct {
	corsOrigin    string
	enableMetrics bool
	loginRate     float64
	loginBurst    int
}

func (x *WebAPI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cors-origin",
			Usage:       "Value of Access-Control-Allow-Origin",
			Category:    "Web API",
			Value:       "*",
			Sources:     cli.EnvVars("IDSWATCH_CORS_ORIGIN"),
			Destination: &x.corsOrigin,
		},
		&cli.BoolFlag{
			Name:        "enable-metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Category:    "Web API",
			Sources:     cli.EnvVars("IDSWATCH_ENABLE_METRICS"),
			Destination: &x.enableMetrics,
		},
		&cli.FloatFlag{
			Name:        "login-rate",
			Usage:       "Login attempts per second allowed per client IP (0 disables throttling)",
			Category:    "Web API",
			Value:       defaultLoginRate,
			Sources:     cli.EnvVars("IDSWATCH_LOGIN_RATE"),
			Destination: &x.loginRate,
		},
		&cli.IntFlag{
			Name:        "login-burst",
			Usage:       "Burst of login attempts allowed per client IP",
			Category:    "Web API",
			Value:       defaultLoginBurst,
			Sources:     cli.EnvVars("IDSWATCH_LOGIN_BURST"),
			Destination: &x.loginBurst,
		},
	}
}

func (x WebAPI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cors_origin", x.corsOrigin),
		slog.Bool("metrics", x.enableMetrics),
		slog.Float64("login_rate", x.loginRate),
		slog.Int("login_burst", x.loginBurst),
	)
}

func (x *WebAPI) Validate() error {
	if x.corsOrigin == "" {
		return goerr.New("--cors-origin must not be empty")
	}
	if x.loginRate < 0 {
		return goerr.New("--login-rate must not be negative", goerr.V("login_rate", x.loginRate))
	}
	if x.loginRate > 0 && x.loginBurst < 1 {
		return goerr.New("--login-burst must be at least 1 when throttling is enabled", goerr.V("login_burst", x.loginBurst))
	}
	return nil
}

func (x *WebAPI) UseCaseOptions() []usecase.Option {
	return []usecase.Option{
		usecase.WithLoginRateLimit(x.loginRate, x.loginBurst),
	}
}

func (x *WebAPI) ServerOptions() []server.Options {
	return []server.Options{
		server.WithCORSOrigin(x.corsOrigin),
		server.WithMetrics(x.enableMetrics),
	}
}
