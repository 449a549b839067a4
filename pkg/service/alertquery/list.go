// Package alertquery filters, sorts, paginates and aggregates alert
// snapshots. Every function is pure: it reads the slice it is given and
// never touches storage, so callers pass a private copy.
package alertquery

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/secmon-lab/idswatch/pkg/domain/model/alert"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultSortBy = "timestamp"
)

type ListOptions struct {
	Page     int
	PageSize int

	// Membership filters. Values inside one filter are OR-ed, filters are
	// AND-ed. An empty filter matches everything.
	Severity []string
	Type     []string
	Status   []string

	Search    string
	StartDate string
	EndDate   string

	SortBy    string
	SortOrder string
}

type Meta struct {
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type ListResult struct {
	Results []*alert.Alert `json:"results"`
	Meta    Meta           `json:"meta"`
}

// List never fails. Inputs out of range fall back to defaults or are clamped.
func List(alerts []*alert.Alert, opts ListOptions) *ListResult {
	filtered := make([]*alert.Alert, 0, len(alerts))
	dr := newDateRange(opts.StartDate, opts.EndDate)
	search := strings.TrimSpace(opts.Search)

	for _, a := range alerts {
		if !inSet(opts.Severity, a.Severity.String()) ||
			!inSet(opts.Type, a.Type) ||
			!inSet(opts.Status, a.Status) {
			continue
		}
		if search != "" && !a.Contains(search) {
			continue
		}
		if !dr.contains(a) {
			continue
		}
		filtered = append(filtered, a)
	}

	sortAlerts(filtered, opts.SortBy, opts.SortOrder)
	return paginate(filtered, opts.Page, opts.PageSize)
}

func inSet(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	return slices.Contains(set, v)
}

type dateRange struct {
	active     bool
	start, end *time.Time
}

// newDateRange ignores bounds that do not parse. A date-only end bound covers
// the whole day.
func newDateRange(start, end string) dateRange {
	dr := dateRange{active: start != "" || end != ""}
	if t, ok := alert.ParseTime(start); ok {
		dr.start = &t
	}
	if t, ok := alert.ParseTime(end); ok {
		if len(end) == len(time.DateOnly) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		dr.end = &t
	}
	return dr
}

func (x dateRange) contains(a *alert.Alert) bool {
	if !x.active {
		return true
	}
	ts, ok := a.Time()
	if !ok {
		return false
	}
	if x.start != nil && ts.Before(*x.start) {
		return false
	}
	if x.end != nil && ts.After(*x.end) {
		return false
	}
	return true
}

type comparator func(a, b *alert.Alert) int

var comparators = map[string]comparator{
	"id":        func(a, b *alert.Alert) int { return cmp.Compare(a.ID, b.ID) },
	"timestamp": compareTimestamp,
	"severity":  func(a, b *alert.Alert) int { return cmp.Compare(a.Severity.Ordinal(), b.Severity.Ordinal()) },
	"type":      func(a, b *alert.Alert) int { return cmp.Compare(a.Type, b.Type) },
	"status":    func(a, b *alert.Alert) int { return cmp.Compare(a.Status, b.Status) },
	"acknowledged": func(a, b *alert.Alert) int {
		return cmp.Compare(boolOrdinal(a.Acknowledged), boolOrdinal(b.Acknowledged))
	},
	"sourceIp":        func(a, b *alert.Alert) int { return cmp.Compare(a.SourceIP, b.SourceIP) },
	"sourcePort":      func(a, b *alert.Alert) int { return cmp.Compare(a.SourcePort, b.SourcePort) },
	"destinationIp":   func(a, b *alert.Alert) int { return cmp.Compare(a.DestinationIP, b.DestinationIP) },
	"destinationPort": func(a, b *alert.Alert) int { return cmp.Compare(a.DestinationPort, b.DestinationPort) },
	"protocol":        func(a, b *alert.Alert) int { return cmp.Compare(a.Protocol, b.Protocol) },
}

// SortFields lists the accepted sortBy values.
func SortFields() []string {
	fields := make([]string, 0, len(comparators))
	for k := range comparators {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	return fields
}

// compareTimestamp orders by instant. It is only meaningful when both sides
// parse; sortAlerts wraps it with unparsableLast.
func compareTimestamp(a, b *alert.Alert) int {
	ta, okA := a.Time()
	tb, okB := b.Time()
	if okA && okB {
		return ta.Compare(tb)
	}
	return cmp.Compare(a.Timestamp, b.Timestamp)
}

// unparsableLast sinks alerts whose timestamp does not parse below every
// parsable one, whatever the direction of compare. Among themselves they
// are ordered by the raw string.
func unparsableLast(compare comparator) comparator {
	return func(a, b *alert.Alert) int {
		_, okA := a.Time()
		_, okB := b.Time()
		switch {
		case okA && okB:
			return compare(a, b)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return cmp.Compare(a.Timestamp, b.Timestamp)
		}
	}
}

func boolOrdinal(v bool) int {
	if v {
		return 1
	}
	return 0
}

// sortAlerts is stable. An unknown field leaves the order untouched.
func sortAlerts(alerts []*alert.Alert, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	compare, ok := comparators[sortBy]
	if !ok {
		return
	}
	if sortOrder != SortAsc {
		asc := compare
		compare = func(a, b *alert.Alert) int { return asc(b, a) }
	}
	if sortBy == "timestamp" {
		compare = unparsableLast(compare)
	}
	slices.SortStableFunc(alerts, compare)
}

func paginate(alerts []*alert.Alert, page, pageSize int) *ListResult {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(max(pageSize, 1), MaxPageSize)

	total := len(alerts)
	totalPages := max(1, int(math.Ceil(float64(total)/float64(pageSize))))

	if page <= 0 {
		page = 1
	}
	page = min(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	results := make([]*alert.Alert, 0, end-start)
	if start < end {
		results = append(results, alerts[start:end]...)
	}

	return &ListResult{
		Results: results,
		Meta: Meta{
			Page:            page,
			PageSize:        pageSize,
			TotalItems:      total,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}
