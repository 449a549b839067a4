package usecase_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/idswatch/pkg/domain/model/help"
	"github.com/secmon-lab/idswatch/pkg/usecase"
)

func TestGenerateBasicReport(t *testing.T) {
	uc, _ := newTestUseCases(t)
	ctx := at(t.Context(), time.Date(2025, 10, 9, 23, 0, 0, 0, time.UTC))

	summary, doc, err := uc.GenerateBasicReport(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Equal(t, summary.Range.Days, 7)
	gt.Equal(t, summary.Totals.Total, 7)
	gt.Equal(t, doc.Filename, "reporte-alertas-2025-10-09.txt")

	raw, err := base64.StdEncoding.DecodeString(doc.Content)
	gt.NoError(t, err).Required()
	gt.S(t, string(raw)).Contains("Total de alertas: 7")

	summary, err = uc.GetReportSummary(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Equal(t, summary.Totals.Total, 3)
}

func TestGetHelp(t *testing.T) {
	uc, _ := newTestUseCases(t)
	gt.A(t, uc.GetHelp(t.Context()).FAQItems).Length(3)

	custom := &help.Content{Glossary: map[string]string{"IDS": "x"}, FAQItems: []help.FAQItem{}}
	uc2 := usecase.New(usecase.WithHelpContent(custom))
	gt.Equal(t, uc2.GetHelp(t.Context()), custom)
}
