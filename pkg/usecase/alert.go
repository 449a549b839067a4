package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/model/auth"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
	"github.com/secmon-lab/idswatch/pkg/service/alertquery"
	"github.com/secmon-lab/idswatch/pkg/utils/clock"
	"github.com/secmon-lab/idswatch/pkg/utils/errutil"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
)

func (uc *UseCases) snapshot(ctx context.Context) ([]*alert.Alert, error) {
	alerts, err := uc.repository.ListAlerts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts")
	}
	return alerts, nil
}

func (uc *UseCases) ListAlerts(ctx context.Context, opts alertquery.ListOptions) (*alertquery.ListResult, error) {
	alerts, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return alertquery.List(alerts, opts), nil
}

func (uc *UseCases) GetAlertSummary(ctx context.Context) (*alertquery.Summary, error) {
	alerts, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return alertquery.Summarize(alerts, clock.Now(ctx)), nil
}

func (uc *UseCases) GetDashboard(ctx context.Context) (*alertquery.Dashboard, error) {
	alerts, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return alertquery.BuildDashboard(alerts, clock.Now(ctx)), nil
}

func (uc *UseCases) GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error) {
	a, err := uc.repository.GetAlert(ctx, alertID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get alert", goerr.TV(errutil.AlertIDKey, alertID))
	}
	return a, nil
}

// AddAlertAction records an action taken by actor. The returned alert is nil
// when alertID is unknown.
func (uc *UseCases) AddAlertAction(ctx context.Context, alertID types.AlertID, input alert.ActionInput, actor *auth.User) (*alert.Alert, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, goerr.New("action without actor", goerr.TV(errutil.AlertIDKey, alertID))
	}

	action := alert.NewAction(input, actor.ID, clock.Now(ctx))
	updated, err := uc.repository.AppendAlertAction(ctx, alertID, action)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append alert action",
			goerr.TV(errutil.AlertIDKey, alertID),
			goerr.TV(errutil.UserIDKey, actor.ID))
	}
	if updated == nil {
		return nil, nil
	}

	logging.From(ctx).Info("alert action recorded",
		slog.String("alert_id", alertID.String()),
		slog.String("action_id", action.ID.String()),
		slog.String("action_type", action.Type),
		slog.String("status", updated.Status),
	)
	return updated, nil
}
