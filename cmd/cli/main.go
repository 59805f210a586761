package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dayahead-procurement/internal/analysis"
	"dayahead-procurement/internal/config"
	"dayahead-procurement/internal/data"
	"dayahead-procurement/internal/logging"
	"dayahead-procurement/internal/model"
	"dayahead-procurement/internal/schedule"
	"dayahead-procurement/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "download":
		cmdDownload(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "plan":
		cmdPlan(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli download --config config.yaml")
	fmt.Println("  cli sweep --config config.yaml --zone DK_2 --out results/sweep.csv")
	fmt.Println("  cli plan --config config.yaml --zone DK_2 --parts 12 --out results/plan.csv")
	fmt.Println("  cli stats --config config.yaml --zone DK_2")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - download fetches day-ahead prices from ENTSO-E and resumes where it left off")
	fmt.Println("  - sweep outputs total procurement cost per partition count")
	fmt.Println("  - plan outputs the per-segment execution ledger for one partition count")
}

func cmdDownload(args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		panic(err)
	}
	defer st.Close()

	zones, err := resolveZones(cfg)
	if err != nil {
		panic(err)
	}
	start, err := cfg.Start()
	if err != nil {
		panic(err)
	}

	client := data.NewClient(cfg.Data.APIKey, cfg.Data.BaseURL, logger)
	refresher := data.NewRefresher(client, st, zones, start, logger)
	if err := refresher.RefreshAll(context.Background()); err != nil {
		panic(err)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	zone := fs.String("zone", "", "Bidding zone code, e.g. DK_2")
	csvPath := fs.String("csv", "", "Optional: load prices from an ENTSO-E export CSV instead of the store")
	start := fs.String("start", "", "Optional: range start, YYYY-MM-DD")
	end := fs.String("end", "", "Optional: range end (exclusive), YYYY-MM-DD")
	partsList := fs.String("parts", "", "Optional: comma-separated partition counts, overrides config")
	outPath := fs.String("out", "results/sweep.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg, series := loadInput(*cfgPath, *zone, *csvPath, *start, *end)

	counts := cfg.Procurement.PartsList
	if *partsList != "" {
		counts = parseParts(*partsList)
	}

	result, err := schedule.Sweep(context.Background(), series,
		counts, cfg.Procurement.TotalVolumeMWh, cfg.Procurement.Limit, cfg.FallbackPolicy())
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := schedule.WriteSweepCSV(*outPath, result); err != nil {
		panic(err)
	}

	fmt.Printf("%-6s %-14s %-14s %-14s %-10s\n", "parts", "total_cost", "purchased", "unpurchased", "execs")
	for _, e := range result.Entries {
		if e.Err != "" {
			fmt.Printf("%-6d failed: %s\n", e.Parts, e.Err)
			continue
		}
		fmt.Printf("%-6d %-14.2f %-14.1f %-14.1f %-10d\n",
			e.Parts, e.TotalCost, e.PurchasedMWh, e.UnpurchasedMWh, e.Executions)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(result.Entries), *outPath)
}

func cmdPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	zone := fs.String("zone", "", "Bidding zone code, e.g. DK_2")
	csvPath := fs.String("csv", "", "Optional: load prices from an ENTSO-E export CSV instead of the store")
	start := fs.String("start", "", "Optional: range start, YYYY-MM-DD")
	end := fs.String("end", "", "Optional: range end (exclusive), YYYY-MM-DD")
	parts := fs.Int("parts", 12, "Partition count")
	outPath := fs.String("out", "results/plan.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg, series := loadInput(*cfgPath, *zone, *csvPath, *start, *end)

	plan, err := schedule.Build(series, *parts,
		cfg.Procurement.TotalVolumeMWh, cfg.Procurement.Limit, cfg.FallbackPolicy())
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := schedule.WritePlanCSV(*outPath, plan); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d segments to %s\n", len(plan.Segments), *outPath)
	fmt.Printf("Total cost=%.2f purchased=%.1f MWh unpurchased=%.1f MWh\n",
		plan.TotalCost, plan.PurchasedMWh, plan.UnpurchasedMWh)
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	zone := fs.String("zone", "", "Bidding zone code, e.g. DK_2")
	csvPath := fs.String("csv", "", "Optional: load prices from an ENTSO-E export CSV instead of the store")
	start := fs.String("start", "", "Optional: range start, YYYY-MM-DD")
	end := fs.String("end", "", "Optional: range end (exclusive), YYYY-MM-DD")
	_ = fs.Parse(args)

	_, series := loadInput(*cfgPath, *zone, *csvPath, *start, *end)

	s := analysis.ComputeStats(series)
	fmt.Printf("zone=%s samples=%d window=%s..%s\n", s.Zone, s.Count,
		s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
	fmt.Printf("min=%.2f max=%.2f mean=%.2f\n", s.Min, s.Max, s.Mean)
	fmt.Printf("p05=%.2f p95=%.2f spread=%.2f\n", s.P05, s.P95, s.SpreadP95P05)
}

// loadInput resolves the price series for the analysis subcommands, either
// from an export CSV or from the local store, then applies the configured
// block averaging.
func loadInput(cfgPath, zone, csvPath, start, end string) (*config.Config, model.Series) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if zone == "" {
		fmt.Println("--zone is required")
		os.Exit(2)
	}

	var series model.Series
	if csvPath != "" {
		series, err = data.ReadExportCSV(csvPath, zone)
		if err != nil {
			panic(err)
		}
	} else {
		st, err := store.Open(cfg.Data.DatabasePath)
		if err != nil {
			panic(err)
		}
		defer st.Close()

		from, to := parseDate(start), parseDate(end)
		series, err = st.LoadSeries(context.Background(), zone, from, to)
		if err != nil {
			panic(err)
		}
	}
	if series.Len() == 0 {
		fmt.Printf("no prices for zone %s; run 'cli download' first\n", zone)
		os.Exit(1)
	}
	if err := series.Validate(); err != nil {
		panic(err)
	}

	if cfg.Preprocess.WindowSize > 1 {
		series, err = schedule.BlockAverage(series, cfg.Preprocess.WindowSize)
		if err != nil {
			panic(err)
		}
	}
	return cfg, series
}

func parseParts(s string) []int {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			panic(fmt.Errorf("bad parts entry %q: %w", f, err))
		}
		out = append(out, n)
	}
	return out
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		fmt.Printf("bad date %q: want YYYY-MM-DD\n", s)
		os.Exit(2)
	}
	return t.UTC()
}

func resolveZones(cfg *config.Config) ([]data.Zone, error) {
	registry := data.DefaultZones()
	if cfg.Data.ZonesFile != "" {
		loaded, err := data.LoadZones(cfg.Data.ZonesFile)
		if err != nil {
			return nil, err
		}
		registry = loaded
	}
	return data.SelectZones(registry, cfg.Data.Zones)
}
