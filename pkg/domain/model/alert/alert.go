package alert

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/domain/model/errs"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

// Alert is a security event raised by a sensor. Status and Acknowledged are
// derived state: they change only through ApplyAction.
type Alert struct {
	ID              types.AlertID  `json:"id" yaml:"id"`
	Timestamp       string         `json:"timestamp" yaml:"timestamp"`
	Severity        types.Severity `json:"severity" yaml:"severity"`
	Type            string         `json:"type" yaml:"type"`
	Status          string         `json:"status" yaml:"status"`
	Acknowledged    bool           `json:"acknowledged" yaml:"acknowledged"`
	SourceIP        string         `json:"sourceIp" yaml:"sourceIp"`
	SourcePort      string         `json:"sourcePort" yaml:"sourcePort"`
	DestinationIP   string         `json:"destinationIp" yaml:"destinationIp"`
	DestinationPort string         `json:"destinationPort" yaml:"destinationPort"`
	Protocol        string         `json:"protocol" yaml:"protocol"`
	Details         string         `json:"details" yaml:"details"`
	Recommendation  string         `json:"recommendation" yaml:"recommendation"`
	Actions         []Action       `json:"actions" yaml:"actions"`
}

// Action is an immutable record of a response taken against an alert.
type Action struct {
	ID           types.ActionID `json:"id" yaml:"id"`
	Type         string         `json:"type" yaml:"type"`
	Notes        string         `json:"notes" yaml:"notes"`
	NextStatus   *string        `json:"nextStatus,omitempty" yaml:"nextStatus,omitempty"`
	Acknowledged *bool          `json:"acknowledged,omitempty" yaml:"acknowledged,omitempty"`
	CreatedBy    types.UserID   `json:"createdBy" yaml:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt" yaml:"createdAt"`
}

func (x *Alert) Validate() error {
	if x.ID == types.EmptyAlertID {
		return goerr.New("empty alert ID")
	}
	if err := x.Severity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.V("alert_id", x.ID))
	}
	return nil
}

// Clone returns a deep copy; the copy shares no memory with the receiver.
func (x *Alert) Clone() *Alert {
	if x == nil {
		return nil
	}
	c := *x
	c.Actions = make([]Action, len(x.Actions))
	for i := range x.Actions {
		c.Actions[i] = x.Actions[i].Clone()
	}
	return &c
}

func (x Action) Clone() Action {
	c := x
	if x.NextStatus != nil {
		v := *x.NextStatus
		c.NextStatus = &v
	}
	if x.Acknowledged != nil {
		v := *x.Acknowledged
		c.Acknowledged = &v
	}
	return c
}

// ApplyAction appends action and performs the status transition it carries
// as a single step. An empty NextStatus keeps the current status; a nil
// Acknowledged keeps the current flag, while an explicit false overwrites it.
func (x *Alert) ApplyAction(action Action) {
	a := action.Clone()
	x.Actions = append(x.Actions, a)
	if a.NextStatus != nil && *a.NextStatus != "" {
		x.Status = *a.NextStatus
	}
	if a.Acknowledged != nil {
		x.Acknowledged = *a.Acknowledged
	}
}

// SearchableFields returns the string-valued fields that free-text search
// inspects.
func (x *Alert) SearchableFields() []string {
	return []string{
		x.ID.String(),
		x.Timestamp,
		x.Severity.String(),
		x.Type,
		x.Status,
		x.SourceIP,
		x.SourcePort,
		x.DestinationIP,
		x.DestinationPort,
		x.Protocol,
		x.Details,
		x.Recommendation,
	}
}

// Contains reports whether any searchable field contains needle, ignoring case.
func (x *Alert) Contains(needle string) bool {
	n := strings.ToLower(needle)
	for _, f := range x.SearchableFields() {
		if strings.Contains(strings.ToLower(f), n) {
			return true
		}
	}
	return false
}

// Date returns the calendar day prefix (YYYY-MM-DD) of the raw timestamp, or
// an empty string if the timestamp is too short to carry one.
func (x *Alert) Date() string {
	if len(x.Timestamp) < 10 {
		return ""
	}
	return x.Timestamp[:10]
}

// ParseTime parses an alert timestamp or a query bound. Values without a zone
// are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		time.DateOnly,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time returns the parsed timestamp. ok is false when it does not parse.
func (x *Alert) Time() (time.Time, bool) {
	return ParseTime(x.Timestamp)
}

// ActionInput is what a responder submits to record an action.
type ActionInput struct {
	Type         string
	Notes        string
	NextStatus   *string
	Acknowledged *bool
}

func (x ActionInput) Validate() error {
	if strings.TrimSpace(x.Type) == "" || strings.TrimSpace(x.Notes) == "" {
		return goerr.New("actionType and notes are required", goerr.T(errs.TagValidation))
	}
	return nil
}

// NewAction builds an immutable action record from input.
func NewAction(input ActionInput, createdBy types.UserID, now time.Time) Action {
	return Action{
		ID:           types.NewActionID(),
		Type:         strings.TrimSpace(input.Type),
		Notes:        input.Notes,
		NextStatus:   input.NextStatus,
		Acknowledged: input.Acknowledged,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
}
