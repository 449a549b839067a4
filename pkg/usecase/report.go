package usecase

import (
	"context"

	"github.com/secmon-lab/idswatch/pkg/domain/model/help"
	"github.com/secmon-lab/idswatch/pkg/service/report"
	"github.com/secmon-lab/idswatch/pkg/utils/clock"
)

func (uc *UseCases) GetReportSummary(ctx context.Context, days int) (*report.Summary, error) {
	alerts, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.BuildSummary(alerts, days, clock.Now(ctx)), nil
}

func (uc *UseCases) GenerateBasicReport(ctx context.Context, days int) (*report.Summary, *report.Document, error) {
	summary, err := uc.GetReportSummary(ctx, days)
	if err != nil {
		return nil, nil, err
	}
	return summary, report.BuildDocument(summary), nil
}

func (uc *UseCases) GetHelp(ctx context.Context) *help.Content {
	return uc.help
}
