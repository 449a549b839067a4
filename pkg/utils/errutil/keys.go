package errutil

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

var (
	RepositoryKey = goerr.NewTypedKey[string]("repository")

	// IDs
	AlertIDKey   = goerr.NewTypedKey[types.AlertID]("alert_id")
	UserIDKey    = goerr.NewTypedKey[types.UserID]("user_id")
	SessionIDKey = goerr.NewTypedKey[types.SessionID]("session_id")
	RequestIDKey = goerr.NewTypedKey[string]("request_id")

	// Request fields
	EmailKey      = goerr.NewTypedKey[string]("email")
	RemoteAddrKey = goerr.NewTypedKey[string]("remote_addr")
	RouteKey      = goerr.NewTypedKey[string]("route")

	// Seed loading
	PathKey  = goerr.NewTypedKey[string]("path")
	IndexKey = goerr.NewTypedKey[int]("index")
)
