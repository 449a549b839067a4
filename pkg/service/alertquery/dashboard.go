package alertquery

import (
	"slices"
	"time"

	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

type Health string

const (
	HealthCritical Health = "critical"
	HealthWarning  Health = "warning"
	HealthHealthy  Health = "healthy"

	LastAlertLimit = 5
)

type Gauge struct {
	Value int `json:"value"`
	Limit int `json:"limit"`
}

// Resources are illustrative sensor gauges shown next to the alert metrics.
// They are not measured.
type Resources struct {
	CPU            Gauge `json:"cpu"`
	Memory         Gauge `json:"memory"`
	Storage        Gauge `json:"storage"`
	SensorsOnline  int   `json:"sensorsOnline"`
	SensorsOffline int   `json:"sensorsOffline"`
}

var staticResources = Resources{
	CPU:            Gauge{Value: 42, Limit: 100},
	Memory:         Gauge{Value: 68, Limit: 100},
	Storage:        Gauge{Value: 180, Limit: 256},
	SensorsOnline:  5,
	SensorsOffline: 1,
}

type Dashboard struct {
	Health      Health         `json:"health"`
	Summary     *Summary       `json:"summary"`
	Resources   Resources      `json:"resources"`
	LastAlerts  []*alert.Alert `json:"lastAlerts"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

func HealthOf(s *Summary) Health {
	switch {
	case s.BySeverity[types.SeverityHigh] > 0:
		return HealthCritical
	case s.BySeverity[types.SeverityMedium] > 0:
		return HealthWarning
	default:
		return HealthHealthy
	}
}

func BuildDashboard(alerts []*alert.Alert, now time.Time) *Dashboard {
	summary := Summarize(alerts, now)
	return &Dashboard{
		Health:      HealthOf(summary),
		Summary:     summary,
		Resources:   staticResources,
		LastAlerts:  latest(alerts, LastAlertLimit),
		LastUpdated: now.UTC(),
	}
}

// latest returns up to n alerts, newest first. Alerts whose timestamp does
// not parse sort after every dated alert.
func latest(alerts []*alert.Alert, n int) []*alert.Alert {
	sorted := slices.Clone(alerts)
	slices.SortStableFunc(sorted, func(a, b *alert.Alert) int {
		ta, okA := a.Time()
		tb, okB := b.Time()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []*alert.Alert{}
	}
	return sorted
}
