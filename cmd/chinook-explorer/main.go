package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chinook-org/chinook-explorer/analytics"
	"github.com/chinook-org/chinook-explorer/loader"
	"github.com/chinook-org/chinook-explorer/model"
	"github.com/chinook-org/chinook-explorer/table"
	"github.com/chinook-org/chinook-explorer/viz"
)

// ============================================================================
// CHINOOK EXPLORER CLI
// ============================================================================
// Demo surface over the library pipeline. Configuration is layered:
// defaults < config.yaml < environment (CHINOOK_*) < flags. A .env
// file, when present, seeds the environment.
// ============================================================================

const version = "0.1.0"

var log = logrus.StandardLogger()

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "chinook-explorer",
		Short:   "Analyze and chart the Chinook music-store dataset",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("data", "", "directory of CSV tables")
	flags.String("sqlite", "", "Chinook SQLite file (overrides --data)")
	flags.String("out", "", "output directory for charts")
	flags.Int("top", 0, "top-N size for rankings")

	root.AddCommand(summaryCmd(), reportCmd(), chartsCmd())
	return root
}

func initConfig(cmd *cobra.Command) {
	_ = godotenv.Load() // .env is optional

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("out_dir", "charts")
	viper.SetDefault("top_n", 10)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // config file is optional

	viper.SetEnvPrefix("CHINOOK")
	viper.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	if f := flags.Lookup("data"); f != nil && f.Changed {
		viper.Set("data_dir", f.Value.String())
	}
	if f := flags.Lookup("sqlite"); f != nil && f.Changed {
		viper.Set("sqlite_path", f.Value.String())
	}
	if f := flags.Lookup("out"); f != nil && f.Changed {
		viper.Set("out_dir", f.Value.String())
	}
	if f := flags.Lookup("top"); f != nil && f.Changed {
		n, _ := cmd.Root().PersistentFlags().GetInt("top")
		viper.Set("top_n", n)
	}
}

// loadTables runs the loader against the configured source.
func loadTables() (*loader.Loader, map[string]*table.Table, error) {
	l := loader.New(viper.GetString("data_dir"), loader.WithLogger(log))
	if path := viper.GetString("sqlite_path"); path != "" {
		tables, err := l.LoadSQLite(path)
		return l, tables, err
	}
	tables, err := l.LoadTables()
	return l, tables, err
}

// ============================================================================
// SUMMARY
// ============================================================================

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print structural summaries and schema warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadTables()
			if err != nil {
				return err
			}

			summaries, err := l.Summary()
			if err != nil {
				return err
			}
			fmt.Printf("%-14s %8s %8s %8s\n", "TABLE", "ROWS", "COLS", "MISSING")
			for _, s := range summaries {
				fmt.Printf("%-14s %8d %8d %8d\n", s.Table, s.Rows, s.Columns, s.MissingValues)
			}

			issues, err := l.ValidateSchema()
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Println("\nNo major schema issues detected.")
			} else {
				fmt.Println("\nSchema issues:")
				for _, issue := range issues {
					fmt.Printf("  %s: %s\n", issue.Table, issue.Issue)
				}
			}

			if warnings := l.Warnings(); len(warnings) > 0 {
				fmt.Printf("\n%d coercion warnings (first 10):\n", len(warnings))
				for i, w := range warnings {
					if i == 10 {
						break
					}
					fmt.Printf("  %s.%s row %d: %q is not a valid %s\n",
						w.Table, w.Column, w.Row, w.Value, w.Want)
				}
			}
			return nil
		},
	}
}

// ============================================================================
// REPORT
// ============================================================================

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print revenue trends, rankings and segmentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := buildAnalyzer()
			if err != nil {
				return err
			}
			n := viper.GetInt("top_n")

			fmt.Println("Revenue by month:")
			for _, m := range an.RevenueByMonth() {
				fmt.Printf("  %s  %10.2f\n", m.Month.Format("2006-01"), m.Revenue)
			}

			printRanking := func(title string, rows []analytics.DimensionRevenue, err error) error {
				if err != nil {
					return err
				}
				fmt.Printf("\n%s:\n", title)
				for _, r := range rows {
					fmt.Printf("  %-28s %10.2f\n", r.Label, r.Revenue)
				}
				return nil
			}
			countries, err := an.TopCountriesByRevenue(n)
			if err := printRanking(fmt.Sprintf("Top %d countries", n), countries, err); err != nil {
				return err
			}
			genres, err := an.TopGenresByRevenue(n)
			if err := printRanking(fmt.Sprintf("Top %d genres", n), genres, err); err != nil {
				return err
			}
			artists, err := an.TopArtistsByRevenue(n)
			if err := printRanking(fmt.Sprintf("Top %d artists", n), artists, err); err != nil {
				return err
			}

			customers, err := an.CustomerLifetimeValue(n)
			if err != nil {
				return err
			}
			fmt.Printf("\nTop %d customers by lifetime value:\n", n)
			for _, c := range customers {
				fmt.Printf("  %-24s %10.2f\n", c.FirstName+" "+c.LastName, c.TotalRevenue)
			}

			rfm, err := an.RFMAnalysis()
			if err != nil {
				return err
			}
			fmt.Printf("\nRFM segmentation (%d customers, top 10 shown):\n", len(rfm))
			fmt.Printf("  %8s %8s %6s %10s %3s %3s %3s %5s\n",
				"CUSTOMER", "RECENCY", "FREQ", "MONETARY", "R", "F", "M", "SCORE")
			for i, r := range rfm {
				if i == 10 {
					break
				}
				fmt.Printf("  %8d %8d %6d %10.2f %3d %3d %3d %5d\n",
					r.CustomerID, r.Recency, r.Frequency, r.Monetary,
					r.RScore, r.FScore, r.MScore, r.RFMScore)
			}

			words, err := an.TopWordsInTrackTitles(n, nil)
			if err != nil {
				return err
			}
			fmt.Printf("\nTop %d words in track titles:\n", n)
			for _, w := range words {
				fmt.Printf("  %-16s %4d\n", w.Word, w.Frequency)
			}

			stats, err := an.DurationStats()
			if err != nil {
				return err
			}
			fmt.Printf("\nTrack duration (minutes): count=%d mean=%.2f std=%s min=%.2f q25=%.2f median=%.2f q75=%.2f max=%.2f\n",
				stats.Count, stats.Mean, fmtStd(stats.Std),
				stats.Min, stats.Q25, stats.Median, stats.Q75, stats.Max)
			return nil
		},
	}
}

func fmtStd(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// ============================================================================
// CHARTS
// ============================================================================

func chartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Render every chart as HTML into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := buildAnalyzer()
			if err != nil {
				return err
			}
			outDir := viper.GetString("out_dir")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			n := viper.GetInt("top_n")
			v := viz.New(an)

			builders := []struct {
				file  string
				build func() (viz.Renderable, error)
			}{
				{"revenue_over_time.html", func() (viz.Renderable, error) { return v.RevenueOverTime() }},
				{"revenue_by_country.html", func() (viz.Renderable, error) { return v.RevenueByCountry(n) }},
				{"top_genres.html", func() (viz.Renderable, error) { return v.TopGenres(n) }},
				{"top_artists.html", func() (viz.Renderable, error) { return v.TopArtists(n) }},
				{"top_customers.html", func() (viz.Renderable, error) { return v.TopCustomers(n) }},
				{"rfm_distribution.html", func() (viz.Renderable, error) { return v.RFMDistribution() }},
				{"top_words.html", func() (viz.Renderable, error) { return v.TopWords(n) }},
				{"duration_distribution.html", func() (viz.Renderable, error) { return v.DurationDistribution() }},
			}
			for _, b := range builders {
				chart, err := b.build()
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, b.file)
				if err := viz.Save(chart, path); err != nil {
					return err
				}
				log.WithField("path", path).Info("chart written")
			}
			return nil
		},
	}
}

// buildAnalyzer runs loader → modeler → analyzer.
func buildAnalyzer() (*analytics.Analyzer, error) {
	_, tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	mdl, err := model.New(tables)
	if err != nil {
		return nil, err
	}
	sales, err := mdl.SalesLineItems()
	if err != nil {
		return nil, err
	}
	catalog, err := mdl.Catalog()
	if err != nil {
		return nil, err
	}
	return analytics.New(sales, catalog)
}
