package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/aggregate"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/export"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/normalize"
	"github.com/TomJordanJGP/job-performance-dashboard/internal/region"
)

var reportFlags struct {
	by     string
	format string
	out    string

	from          string
	to            string
	regions       []string
	importers     []string
	organizations []string
	occupations   []string
	upgrades      []string
	title         string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a filtered aggregate breakdown to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		var dim aggregate.Dimension
		vacancyTable := reportFlags.by == "vacancies"
		if !vacancyTable {
			var err error
			if dim, err = aggregate.ParseDimension(reportFlags.by); err != nil {
				return err
			}
		}

		filter, err := reportFilter()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ds, err := env.Service.Dataset(ctx)
		if err != nil {
			return eris.Wrap(err, "load dataset")
		}

		records := aggregate.Apply(ds.Records, filter)

		out := os.Stdout
		if reportFlags.out != "" {
			f, err := os.Create(reportFlags.out)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		var written int
		if vacancyTable {
			rows := aggregate.Vacancies(records)
			written = len(rows)
			switch reportFlags.format {
			case "csv":
				err = export.VacanciesCSV(out, rows)
			case "xlsx":
				err = export.VacanciesXLSX(out, "vacancies", rows)
			default:
				return eris.Errorf("unknown format %q", reportFlags.format)
			}
		} else {
			rows := aggregate.GroupBy(records, dim)
			written = len(rows)
			switch reportFlags.format {
			case "csv":
				err = export.GroupsCSV(out, rows)
			case "xlsx":
				err = export.GroupsXLSX(out, "by "+string(dim), rows)
			default:
				return eris.Errorf("unknown format %q", reportFlags.format)
			}
		}
		if err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("by", reportFlags.by),
			zap.Int("rows", written),
			zap.Bool("stale", ds.Stats.Stale),
		)
		return nil
	},
}

func reportFilter() (aggregate.Filter, error) {
	f := aggregate.Filter{
		Importers:     reportFlags.importers,
		Organizations: reportFlags.organizations,
		Occupations:   reportFlags.occupations,
		Upgrades:      reportFlags.upgrades,
		TitleQuery:    reportFlags.title,
	}
	for _, name := range reportFlags.regions {
		f.Regions = append(f.Regions, region.Region(name))
	}

	var err error
	if f.DateFrom, err = optionalDate(reportFlags.from); err != nil {
		return f, eris.Wrap(err, "parse --from")
	}
	if f.DateTo, err = optionalDate(reportFlags.to); err != nil {
		return f, eris.Wrap(err, "parse --to")
	}
	if f.DateFrom.Valid && f.DateTo.Valid && f.DateTo.Before(f.DateFrom) {
		return f, eris.New("--to precedes --from")
	}
	return f, nil
}

func optionalDate(raw string) (model.Date, error) {
	if raw == "" {
		return model.Date{}, nil
	}
	return normalize.ParseDate(raw)
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.by, "by", "region", "dimension: region|importer|organization|occupation|upgrade, or vacancies for the per-posting table")
	reportCmd.Flags().StringVar(&reportFlags.format, "format", "csv", "output format: csv|xlsx")
	reportCmd.Flags().StringVarP(&reportFlags.out, "out", "o", "", "output file (default stdout)")
	reportCmd.Flags().StringVar(&reportFlags.from, "from", "", "start of date range (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFlags.to, "to", "", "end of date range (YYYY-MM-DD)")
	reportCmd.Flags().StringSliceVar(&reportFlags.regions, "regions", nil, "filter to regions")
	reportCmd.Flags().StringSliceVar(&reportFlags.importers, "importers", nil, "filter to importer labels")
	reportCmd.Flags().StringSliceVar(&reportFlags.organizations, "organizations", nil, "filter to organizations")
	reportCmd.Flags().StringSliceVar(&reportFlags.occupations, "occupations", nil, "filter to occupational fields")
	reportCmd.Flags().StringSliceVar(&reportFlags.upgrades, "upgrades", nil, "filter to upgrade tags (any of)")
	reportCmd.Flags().StringVar(&reportFlags.title, "title", "", "title substring filter")
	rootCmd.AddCommand(reportCmd)
}
