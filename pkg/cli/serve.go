package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/cli/config"
	server "github.com/secmon-lab/idswatch/pkg/controller/http"
	"github.com/secmon-lab/idswatch/pkg/usecase"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		addr      string
		seedCfg   config.Seed
		sentryCfg config.Sentry
		webAPICfg config.WebAPI
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("IDSWATCH_ADDR"),
				Usage:       "Listen address",
				Value:       "127.0.0.1:4000",
				Destination: &addr,
			},
		},
		seedCfg.Flags(),
		sentryCfg.Flags(),
		webAPICfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.Default().Info("starting server",
				"addr", addr,
				"seed", seedCfg,
				"sentry", sentryCfg,
				"web-api", webAPICfg,
			)

			if err := webAPICfg.Validate(); err != nil {
				return err
			}

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			repo, err := seedCfg.Configure(ctx)
			if err != nil {
				return err
			}

			uc := usecase.New(append(
				[]usecase.Option{usecase.WithRepository(repo)},
				webAPICfg.UseCaseOptions()...,
			)...)

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc, webAPICfg.ServerOptions()...),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			return listenAndServe(ctx, &httpServer)
		},
	}
}

// listenAndServe runs srv until it fails, ctx is canceled, or SIGINT/SIGTERM
// arrives. In-flight requests get shutdownTimeout to finish.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "http server stopped", goerr.V("addr", srv.Addr))
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		logging.From(ctx).Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown http server")
		}
		return nil
	}
}
