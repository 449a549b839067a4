package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
	"github.com/secmon-lab/idswatch/pkg/utils/request_id"
)

const (
	corsAllowHeaders = "Content-Type, Authorization"
	corsAllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
)

func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				panicErr := goerr.New("panic recovered",
					goerr.V("panic", fmt.Sprintf("%v", rec)),
					goerr.V("debug_stack", string(debug.Stack())),
					goerr.V("method", r.Method),
					goerr.TV(errutil.RouteKey, r.URL.Path),
					goerr.TV(errutil.RequestIDKey, request_id.FromContext(r.Context())),
				)
				handleError(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware answers preflight requests itself and decorates every other
// response.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authMiddleware rejects requests without a live session and stores the
// principal in the request context.
func authMiddleware(uc UseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := uc.RequireAuth(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				handleError(w, r, err)
				return
			}
			if principal == nil {
				writeError(w, r, http.StatusUnauthorized, errs.MsgInvalidSession)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			ctx = logging.WithAttrs(ctx, slog.String("user_id", principal.User.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principalFrom(r *http.Request) (*auth.Principal, error) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		return nil, goerr.Wrap(err, "authenticated route without principal")
	}
	return principal, nil
}
