package report

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

const (
	DefaultDays     = 7
	MaxDays         = 3650
	TopThreatLimit  = 5
	DocumentMIME    = "text/plain"
	DocumentEncoder = "base64"
	documentNote    = "Contenido generado en texto plano listo para transformarse en PDF desde el frontend."
)

type Totals struct {
	Total      int                    `json:"total"`
	BySeverity map[types.Severity]int `json:"bySeverity"`
	ByType     map[string]int         `json:"byType"`
}

type Threat struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
}

type TimelinePoint struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Critical int    `json:"critical"`
}

type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

type Summary struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Range       Range           `json:"range"`
	Totals      Totals          `json:"totals"`
	TopThreats  []Threat        `json:"topThreats"`
	Timeline    []TimelinePoint `json:"timeline"`
}

// BuildSummary aggregates the alerts raised within the last days. Alerts
// without a parsable timestamp fall outside every window. days is capped at
// MaxDays so the range start stays a representable year.
func BuildSummary(alerts []*alert.Alert, days int, now time.Time) *Summary {
	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)
	now = now.UTC()
	cutoff := now.AddDate(0, 0, -days)

	s := &Summary{
		GeneratedAt: now,
		Range:       Range{From: cutoff, To: now, Days: days},
		Totals: Totals{
			BySeverity: make(map[types.Severity]int),
			ByType:     make(map[string]int),
		},
		TopThreats: []Threat{},
		Timeline:   []TimelinePoint{},
	}

	var typeOrder []string
	timeline := make(map[string]*TimelinePoint)
	for _, a := range alerts {
		ts, ok := a.Time()
		if !ok || ts.Before(cutoff) {
			continue
		}

		s.Totals.Total++
		s.Totals.BySeverity[a.Severity]++
		if _, seen := s.Totals.ByType[a.Type]; !seen {
			typeOrder = append(typeOrder, a.Type)
		}
		s.Totals.ByType[a.Type]++

		point, ok := timeline[a.Date()]
		if !ok {
			point = &TimelinePoint{Date: a.Date()}
			timeline[a.Date()] = point
		}
		point.Total++
		if a.Severity == types.SeverityHigh {
			point.Critical++
		}
	}

	for _, t := range typeOrder {
		s.TopThreats = append(s.TopThreats, Threat{Type: t, Total: s.Totals.ByType[t]})
	}
	slices.SortStableFunc(s.TopThreats, func(a, b Threat) int { return b.Total - a.Total })
	if len(s.TopThreats) > TopThreatLimit {
		s.TopThreats = s.TopThreats[:TopThreatLimit]
	}

	for _, p := range timeline {
		s.Timeline = append(s.Timeline, *p)
	}
	slices.SortFunc(s.Timeline, func(a, b TimelinePoint) int { return strings.Compare(a.Date, b.Date) })

	return s
}

// Document is a downloadable rendering of a Summary.
type Document struct {
	MIMEType string `json:"mimeType"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Filename string `json:"filename"`
	Note     string `json:"note"`
}

// Render formats the summary as plain text. Severities are listed from the
// highest down.
func Render(s *Summary) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Reporte Básico de Alertas")
	fmt.Fprintf(&b, "Generado: %s\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Periodo: %s - %s (%d días)\n", s.Range.From.Format(time.RFC3339), s.Range.To.Format(time.RFC3339), s.Range.Days)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total de alertas: %s\n", humanize.Comma(int64(s.Totals.Total)))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Distribución por criticidad:")
	for _, sev := range slices.Backward(types.Severities) {
		if n := s.Totals.BySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "  - %s: %s\n", sev, humanize.Comma(int64(n)))
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Principales tipos de amenaza:")
	for _, threat := range s.TopThreats {
		fmt.Fprintf(&b, "  - %s: %s eventos\n", threat.Type, humanize.Comma(int64(threat.Total)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func BuildDocument(s *Summary) *Document {
	return &Document{
		MIMEType: DocumentMIME,
		Encoding: DocumentEncoder,
		Content:  base64.StdEncoding.EncodeToString([]byte(Render(s))),
		Filename: fmt.Sprintf("reporte-alertas-%s.txt", s.GeneratedAt.Format(time.DateOnly)),
		Note:     documentNote,
	}
}
