package alert_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

func ptr[T any](v T) *T { return &v }

func newAlert() *alert.Alert {
	return &alert.Alert{
		ID:            "a-1",
		Timestamp:     "2025-10-09T21:10:00Z",
		Severity:      types.SeverityHigh,
		Type:          "Malware Detectado",
		Status:        "Nueva",
		SourceIP:      "192.168.1.105",
		DestinationIP: "104.18.32.229",
		Protocol:      "TCP",
		Details:       "Emotet C&C beacon",
	}
}

func TestApplyAction(t *testing.T) {
	t.Run("next status and acknowledged overwrite", func(t *testing.T) {
		a := newAlert()
		a.ApplyAction(alert.Action{
			ID:           types.NewActionID(),
			Type:         "Aislamiento",
			Notes:        "host isolated",
			NextStatus:   ptr("En investigación"),
			Acknowledged: ptr(true),
		})
		gt.A(t, a.Actions).Length(1)
		gt.Equal(t, a.Status, "En investigación")
		gt.True(t, a.Acknowledged)
	})

	t.Run("absent fields keep current state", func(t *testing.T) {
		a := newAlert()
		a.Acknowledged = true
		a.ApplyAction(alert.Action{Type: "Nota", Notes: "x"})
		gt.Equal(t, a.Status, "Nueva")
		gt.True(t, a.Acknowledged)
	})

	t.Run("explicit false overwrites acknowledged", func(t *testing.T) {
		a := newAlert()
		a.Acknowledged = true
		a.ApplyAction(alert.Action{Type: "Reapertura", Notes: "x", Acknowledged: ptr(false)})
		gt.False(t, a.Acknowledged)
	})

	t.Run("empty next status does not overwrite", func(t *testing.T) {
		a := newAlert()
		a.ApplyAction(alert.Action{Type: "Nota", Notes: "x", NextStatus: ptr("")})
		gt.Equal(t, a.Status, "Nueva")
	})

	t.Run("appended action is detached from caller", func(t *testing.T) {
		a := newAlert()
		status := "Cerrada"
		action := alert.Action{Type: "Cierre", Notes: "x", NextStatus: &status}
		a.ApplyAction(action)
		status = "Modificada"
		gt.Equal(t, *a.Actions[0].NextStatus, "Cerrada")
	})
}

func TestClone(t *testing.T) {
	a := newAlert()
	a.ApplyAction(alert.Action{Type: "Nota", Notes: "first", Acknowledged: ptr(true)})

	c := a.Clone()
	c.Status = "changed"
	c.Actions[0].Notes = "changed"
	*c.Actions[0].Acknowledged = false
	c.ApplyAction(alert.Action{Type: "Nota", Notes: "second"})

	gt.Equal(t, a.Status, "Nueva")
	gt.A(t, a.Actions).Length(1)
	gt.Equal(t, a.Actions[0].Notes, "first")
	gt.True(t, *a.Actions[0].Acknowledged)

	var nilAlert *alert.Alert
	gt.True(t, nilAlert.Clone() == nil)
}

func TestContains(t *testing.T) {
	a := newAlert()
	gt.True(t, a.Contains("emotet"))
	gt.True(t, a.Contains("MALWARE"))
	gt.True(t, a.Contains("192.168.1"))
	gt.False(t, a.Contains("phishing"))
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		input string
		ok    bool
		want  time.Time
	}{
		{"2025-10-09T21:10:00Z", true, time.Date(2025, 10, 9, 21, 10, 0, 0, time.UTC)},
		{"2025-10-09T21:10:00", true, time.Date(2025, 10, 9, 21, 10, 0, 0, time.UTC)},
		{"2025-10-09T21:10:00.500", true, time.Date(2025, 10, 9, 21, 10, 0, 500000000, time.UTC)},
		{"2025-10-09", true, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)},
		{"yesterday", false, time.Time{}},
		{"", false, time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := alert.ParseTime(tc.input)
			gt.Equal(t, ok, tc.ok)
			if tc.ok {
				gt.True(t, got.Equal(tc.want))
			}
		})
	}
}

func TestValidate(t *testing.T) {
	a := newAlert()
	gt.NoError(t, a.Validate())

	a.Severity = "Critica"
	gt.Error(t, a.Validate())

	b := newAlert()
	b.ID = ""
	gt.Error(t, b.Validate())
}

func TestActionInput(t *testing.T) {
	gt.Error(t, alert.ActionInput{Notes: "x"}.Validate())
	gt.Error(t, alert.ActionInput{Type: "Nota", Notes: "   "}.Validate())
	gt.NoError(t, alert.ActionInput{Type: "Nota", Notes: "x"}.Validate())

	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)
	action := alert.NewAction(alert.ActionInput{Type: " Nota ", Notes: "x", Acknowledged: ptr(false)}, "u-admin", now)
	gt.Equal(t, action.Type, "Nota")
	gt.Equal(t, action.CreatedBy, types.UserID("u-admin"))
	gt.True(t, action.CreatedAt.Equal(now))
	gt.NotEqual(t, action.ID, types.ActionID(""))
	gt.False(t, *action.Acknowledged)
}
