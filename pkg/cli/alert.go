package cli

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/cli/config"
	"github.com/secmon-lab/idswatch/pkg/service/alertquery"
	"github.com/secmon-lab/idswatch/pkg/utils/clock"
	"github.com/urfave/cli/v3"
)

// cmdAlert runs the query engine offline against seed data, which is handy
// for checking a seed file before serving it.
func cmdAlert() *cli.Command {
	var (
		seedCfg config.Seed
		opts    alertquery.ListOptions
		page    int
		size    int
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringSliceFlag{
				Name:        "severity",
				Usage:       "Severity filter (repeatable: Baja, Media, Alta)",
				Category:    "Filter",
				Destination: &opts.Severity,
			},
			&cli.StringSliceFlag{
				Name:        "type",
				Usage:       "Alert type filter (repeatable)",
				Category:    "Filter",
				Destination: &opts.Type,
			},
			&cli.StringSliceFlag{
				Name:        "status",
				Usage:       "Status filter (repeatable)",
				Category:    "Filter",
				Destination: &opts.Status,
			},
			&cli.StringFlag{
				Name:        "search",
				Usage:       "Case-insensitive text search",
				Category:    "Filter",
				Destination: &opts.Search,
			},
			&cli.StringFlag{
				Name:        "start-date",
				Usage:       "Lower timestamp bound (ISO-8601)",
				Category:    "Filter",
				Destination: &opts.StartDate,
			},
			&cli.StringFlag{
				Name:        "end-date",
				Usage:       "Upper timestamp bound (ISO-8601, a date covers the whole day)",
				Category:    "Filter",
				Destination: &opts.EndDate,
			},
			&cli.StringFlag{
				Name:        "sort-by",
				Usage:       "Sort field [" + strings.Join(alertquery.SortFields(), "|") + "]",
				Category:    "Sort",
				Value:       alertquery.DefaultSortBy,
				Destination: &opts.SortBy,
			},
			&cli.StringFlag{
				Name:        "sort-order",
				Usage:       "Sort order [asc|desc]",
				Category:    "Sort",
				Value:       alertquery.SortDesc,
				Destination: &opts.SortOrder,
			},
			&cli.IntFlag{
				Name:        "page",
				Usage:       "Page number",
				Category:    "Page",
				Value:       1,
				Destination: &page,
			},
			&cli.IntFlag{
				Name:        "page-size",
				Usage:       "Page size",
				Category:    "Page",
				Value:       alertquery.DefaultPageSize,
				Destination: &size,
			},
		},
		seedCfg.Flags(),
	)

	return &cli.Command{
		Name:  "alert",
		Usage: "Query seed alerts with the same engine the API uses",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if opts.SortBy != "" && !slices.Contains(alertquery.SortFields(), opts.SortBy) {
				return goerr.New("unknown sort field", goerr.V("sort_by", opts.SortBy))
			}
			alerts, err := seedCfg.LoadAlerts()
			if err != nil {
				return err
			}

			opts.Page, opts.PageSize = page, size
			return printJSON(cmd.Root().Writer, alertquery.List(alerts, opts))
		},
		Commands: []*cli.Command{
			{
				Name:  "summary",
				Usage: "Print the aggregated summary of the seed alerts",
				Flags: seedCfg.Flags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					alerts, err := seedCfg.LoadAlerts()
					if err != nil {
						return err
					}
					return printJSON(cmd.Root().Writer, alertquery.Summarize(alerts, clock.Now(ctx)))
				},
			},
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write JSON output")
	}
	return nil
}
