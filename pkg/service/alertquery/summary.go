package alertquery

import (
	"slices"
	"time"

	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
	"github.com/secmon-lab/idswatch/pkg/domain/types"
)

const (
	TrendDays    = 7
	TopTypeLimit = 5
)

type AcknowledgedSplit struct {
	Acknowledged int `json:"acknowledged"`
	Pending      int `json:"pending"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
}

type Summary struct {
	Total        int                    `json:"total"`
	BySeverity   map[types.Severity]int `json:"bySeverity"`
	ByType       map[string]int         `json:"byType"`
	ByStatus     map[string]int         `json:"byStatus"`
	Acknowledged AcknowledgedSplit      `json:"acknowledged"`
	Trend        []TrendPoint           `json:"trend"`
	TopTypes     []TypeCount            `json:"topTypes"`
}

// Summarize aggregates the whole snapshot. The trend covers the TrendDays
// UTC calendar days ending at now, oldest first.
func Summarize(alerts []*alert.Alert, now time.Time) *Summary {
	s := &Summary{
		Total:      len(alerts),
		BySeverity: make(map[types.Severity]int),
		ByType:     make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	var typeOrder []string
	byDate := make(map[string]int)
	for _, a := range alerts {
		s.BySeverity[a.Severity]++
		if _, seen := s.ByType[a.Type]; !seen {
			typeOrder = append(typeOrder, a.Type)
		}
		s.ByType[a.Type]++
		s.ByStatus[a.Status]++
		if a.Acknowledged {
			s.Acknowledged.Acknowledged++
		} else {
			s.Acknowledged.Pending++
		}
		byDate[a.Date()]++
	}

	today := now.UTC()
	s.Trend = make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		s.Trend = append(s.Trend, TrendPoint{Date: day, Total: byDate[day]})
	}

	s.TopTypes = make([]TypeCount, 0, len(typeOrder))
	for _, t := range typeOrder {
		s.TopTypes = append(s.TopTypes, TypeCount{Type: t, Total: s.ByType[t]})
	}
	slices.SortStableFunc(s.TopTypes, func(a, b TypeCount) int {
		return b.Total - a.Total
	})
	if len(s.TopTypes) > TopTypeLimit {
		s.TopTypes = s.TopTypes[:TopTypeLimit]
	}

	return s
}
