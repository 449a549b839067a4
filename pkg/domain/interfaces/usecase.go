package interfaces

import (
	"context"

	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/model/help"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/service/alertquery"
	"github.com/secmon-lab/idswatch/pkg/service/report"
)

type AlertUsecases interface {
	ListAlerts(ctx context.Context, opts alertquery.ListOptions) (*alertquery.ListResult, error)
	GetAlertSummary(ctx context.Context) (*alertquery.Summary, error)
	GetDashboard(ctx context.Context) (*alertquery.Dashboard, error)
	// GetAlert and AddAlertAction return (nil, nil) for an unknown alert.
	GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error)
	AddAlertAction(ctx context.Context, alertID types.AlertID, input alert.ActionInput, actor *auth.User) (*alert.Alert, error)
}

type AuthUsecases interface {
	// Login returns (nil, nil, nil) for unknown credentials.
	Login(ctx context.Context, email, password string, metadata auth.Metadata) (*auth.Session, *auth.User, error)
	// RequireAuth returns (nil, nil) when the caller is not authenticated.
	RequireAuth(ctx context.Context, authorization string) (*auth.Principal, error)
	CloseSession(ctx context.Context, token auth.Token) (bool, error)
	ListSessions(ctx context.Context, userID types.UserID) ([]*auth.Session, error)
	ChangePassword(ctx context.Context, userID types.UserID, current, next string) error
	UpdateNotificationEmail(ctx context.Context, userID types.UserID, email string) (string, error)
}

type ReportUsecases interface {
	GetReportSummary(ctx context.Context, days int) (*report.Summary, error)
	GenerateBasicReport(ctx context.Context, days int) (*report.Summary, *report.Document, error)
	GetHelp(ctx context.Context) *help.Content
}
