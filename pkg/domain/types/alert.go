package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

func (x AlertID) String() string {
	return string(x)
}

const (
	EmptyAlertID AlertID = ""
)

type ActionID string

func (x ActionID) String() string {
	return string(x)
}

func NewActionID() ActionID {
	return ActionID(uuid.New().String())
}

// Severity is the closed, ordered classification of an alert. Values are the
// labels used by the sensors that feed the dashboard.
type Severity string

const (
	SeverityLow    Severity = "Baja"
	SeverityMedium Severity = "Media"
	SeverityHigh   Severity = "Alta"
)

// Severities lists every severity from lowest to highest.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

var severityLabels = map[Severity]string{
	SeverityLow:    "🟢 Baja",
	SeverityMedium: "🟡 Media",
	SeverityHigh:   "🔴 Alta",
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) Label() string {
	return severityLabels[s]
}

// Ordinal returns 0 for Baja, 1 for Media and 2 for Alta. Unknown values
// return -1 and sort below every valid severity.
func (s Severity) Ordinal() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	}
	return -1
}

func (s Severity) Validate() error {
	if s.Ordinal() < 0 {
		return goerr.New("invalid alert severity", goerr.V("severity", s))
	}
	return nil
}

func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if err := sev.Validate(); err != nil {
		return "", err
	}
	return sev, nil
}
