package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"property-resolver/internal/bootstrap"
	"property-resolver/internal/config"
	"property-resolver/internal/logging"
	"property-resolver/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	configDir string
	logLevel  string
}

func newRootCmd(ctx context.Context, out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "propres",
		Short:         "Resolve assessment and market data for a property",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", "./configs", "directory holding app.env")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	root.SetOut(out)

	root.AddCommand(resolveCmd(ctx, opts))
	root.AddCommand(portalsCmd(ctx, opts))
	return root
}

func (o *options) load() (config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func resolveCmd(ctx context.Context, opts *options) *cobra.Command {
	var city string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve <address>",
		Short: "Resolve the assessed record and market comparables for an address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			app, err := bootstrap.Build(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Resolver.Resolve(ctx, strings.Join(args, " "), city)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city or municipality of the address")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}

func portalsCmd(ctx context.Context, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "portals",
		Short: "List the municipal open-data portals in the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			app, err := bootstrap.Build(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CITY\tDIALECT\tENDPOINT\tDATASET")
			for _, p := range app.Registry.Portals() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.City, p.Dialect, p.BaseURL, p.Dataset)
			}
			return w.Flush()
		},
	}
}

func printResult(out io.Writer, r models.PropertyDataResult) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Address:\t%s, %s\n", r.Address, r.City)
	fmt.Fprintf(w, "Assessment:\t%s\n", r.AssessmentStatus())

	if a := r.Assessment; a != nil {
		fmt.Fprintf(w, "  Source:\t%s (%s)\n", a.Provenance.Source, a.Provenance.Kind)
		if a.ParcelID != "" {
			fmt.Fprintf(w, "  Parcel ID:\t%s\n", a.ParcelID)
		}
		if a.HasMonetaryValues() {
			fmt.Fprintf(w, "  Land:\t%s\n", dollars(a.LandValue))
			fmt.Fprintf(w, "  Improvements:\t%s\n", dollars(a.ImprovementValue))
			fmt.Fprintf(w, "  Total:\t%s\n", dollars(a.TotalAssessedValue))
		}
		if a.LotSize > 0 {
			fmt.Fprintf(w, "  Lot size:\t%.0f sq ft\n", a.LotSize)
		}
		fmt.Fprintf(w, "  Zoning:\t%s\n", a.Zoning)
		if a.YearBuilt != nil {
			fmt.Fprintf(w, "  Year built:\t%d\n", *a.YearBuilt)
		}
		if a.Provenance.Note != "" {
			fmt.Fprintf(w, "  Note:\t%s\n", a.Provenance.Note)
		}
	}
	if r.NeedsManualEntry() {
		fmt.Fprintln(w, "  No assessment found; enter values manually.")
	}

	m := r.Market
	fmt.Fprintf(w, "Comparables:\t%d\n", len(r.Comparables))
	if m.SampleSize > 0 {
		fmt.Fprintf(w, "  Price range:\t%s - %s\n", dollars(m.PriceRange.Min), dollars(m.PriceRange.Max))
		fmt.Fprintf(w, "  Avg $/sq ft:\t%.2f\n", m.AveragePricePerArea)
		fmt.Fprintf(w, "  Avg days on market:\t%.1f\n", m.AverageDaysOnMarket)
	}
	fmt.Fprintf(w, "  Trend:\t%s\n", m.Trend)
	return w.Flush()
}

// dollars formats whole dollars with thousands separators.
func dollars(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
