package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/enrich"
	"github.com/brandlens/brandlens/internal/fetch"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/pipeline"
	"github.com/brandlens/brandlens/internal/report"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

func main() {
	godotenv.Load()

	// Flags
	title := flag.String("title", "Brand Landscape", "Report title")
	urlFile := flag.String("file", "", "File with one URL per line")
	jsonOut := flag.Bool("json", false, "Print the full report as JSON")
	outPath := flag.String("o", "", "Write the JSON report to a file")
	render := flag.Bool("render", false, "Render pages with a headless browser")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	urls := flag.Args()
	if *urlFile != "" {
		fromFile, err := readURLFile(*urlFile)
		if err != nil {
			red.Printf("❌ Failed to read %s: %v\n", *urlFile, err)
			os.Exit(1)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		red.Println("❌ No URLs given")
		fmt.Println("   Usage: analyze [flags] URL [URL...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check API key
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		red.Println("❌ ANTHROPIC_API_KEY not set")
		fmt.Println("   Add it to .env file or set environment variable")
		os.Exit(1)
	}

	// Setup logger
	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"/dev/null"}
		logger, _ = cfg.Build()
	}
	defer logger.Sync()

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		red.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Fetch.RenderEnabled = *render

	printBanner()
	fmt.Printf("🎯 Sites: %d\n", len(urls))
	fmt.Printf("📋 Title: %s\n", *title)
	fmt.Println()

	// Create Claude client
	claudeCfg := llm.DefaultConfig()
	claudeCfg.APIKey = apiKey
	claudeClient, err := llm.NewClaudeClient(claudeCfg)
	if err != nil {
		red.Printf("❌ Failed to create Claude client: %v\n", err)
		os.Exit(1)
	}

	// Page fetcher
	httpFetcher := fetch.NewHTTPFetcher(cfg.Fetch, logger)
	var fetcher fetch.Fetcher = httpFetcher
	if cfg.Fetch.RenderEnabled {
		rendered, err := fetch.NewRenderedFetcher(cfg.Fetch, httpFetcher, logger)
		if err != nil {
			yellow.Printf("⚠ Browser unavailable, falling back to static fetching: %v\n", err)
		} else {
			defer rendered.Close()
			fetcher = rendered
		}
	}

	pipe := pipeline.New(cfg.Pipeline, fetcher, enrich.NewEnricher(claudeClient, logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.TotalTimeout)
	defer cancel()

	startTime := time.Now()
	rep, err := runAnalysis(ctx, pipe, *title, urls)
	if err != nil {
		red.Printf("❌ Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := writeReport(rep, *outPath); err != nil {
			red.Printf("❌ Failed to write report: %v\n", err)
			os.Exit(1)
		}
		green.Printf("✓ Report written to %s\n", *outPath)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(rep)
		return
	}

	printReport(rep, time.Since(startTime))
}

func runAnalysis(ctx context.Context, pipe *pipeline.Pipeline, title string, urls []string) (*report.LandscapeReport, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("   Extracting brand signals..."),
		progressbar.OptionSpinnerType(14),
	)

	done := make(chan bool)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				bar.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()

	rep, err := pipe.Analyze(ctx, title, urls)
	close(done)
	bar.Finish()
	fmt.Println()

	return rep, err
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func writeReport(rep *report.LandscapeReport, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printBanner() {
	cyan.Println(`
╔══════════════════════════════════════════════════╗
║                                                  ║
║   BrandLens · Brand Signal Extraction Pipeline   ║
║                                                  ║
╚══════════════════════════════════════════════════╝`)
}

func printReport(rep *report.LandscapeReport, elapsed time.Duration) {
	if rep.Status == report.StatusNoData {
		yellow.Printf("⚠ No data: %s\n", rep.Message)
		printFailures(rep)
		return
	}

	fmt.Println()
	cyan.Println("┌─────────────────────────────────────────────────────┐")
	cyan.Printf("│  %-51s│\n", truncate(rep.Title, 51))
	cyan.Println("├─────────────────────────────────────────────────────┤")
	fmt.Printf("│  Brands analyzed:     %-30d│\n", rep.ProfileCount)
	fmt.Printf("│  Duplicates dropped:  %-30d│\n", rep.DuplicatesDropped)
	fmt.Printf("│  Avg completeness:    %-30.2f│\n", rep.Summary.AverageCompleteness)
	fmt.Printf("│  Avg confidence:      %-30.2f│\n", rep.Summary.AverageConfidence)
	fmt.Printf("│  Market maturity:     %-30s│\n", rep.Summary.MarketMaturity)
	fmt.Printf("│  Elapsed:             %-30s│\n", elapsed.Round(time.Millisecond))
	cyan.Println("└─────────────────────────────────────────────────────┘")

	for _, p := range rep.Profiles {
		fmt.Println()
		bold.Printf("━━━ %s ━━━\n", p.CompanyName)
		dim.Printf("    %s\n", p.URL)
		if p.Positioning != "" {
			fmt.Printf("    Positioning: %s\n", truncate(p.Positioning, 100))
		}
		if p.ValueProposition != "" {
			fmt.Printf("    Value prop:  %s\n", truncate(p.ValueProposition, 100))
		}
		if len(p.Colors) > 0 {
			fmt.Printf("    Palette:     %s\n", strings.Join(p.Colors, " "))
		}
		if m, ok := rep.Metrics[p.CompanyName]; ok {
			fmt.Printf("    Completeness %.2f · Clarity %.2f · Differentiation %.2f\n",
				m.Completeness, m.PositioningClarity, m.Differentiation)
		}
	}

	if len(rep.Summary.TopThemes) > 0 {
		fmt.Println()
		bold.Println("━━━ Common Themes ━━━")
		for _, theme := range rep.Summary.TopThemes {
			fmt.Printf("    • %s\n", theme)
		}
	}

	if len(rep.Landscape.Clusters) > 0 {
		fmt.Println()
		bold.Println("━━━ Positioning Clusters ━━━")
		names := make([]string, 0, len(rep.Landscape.Clusters))
		for name := range rep.Landscape.Clusters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("    • %s: %s\n", name, strings.Join(rep.Landscape.Clusters[name], ", "))
		}
	}

	if len(rep.Landscape.Gaps) > 0 {
		fmt.Println()
		bold.Println("━━━ Market Gaps ━━━")
		for _, gap := range rep.Landscape.Gaps {
			fmt.Printf("    • %s\n", gap)
		}
	}

	printFailures(rep)

	fmt.Println()
	green.Println("✓ Done")
}

func printFailures(rep *report.LandscapeReport) {
	if len(rep.Failures) == 0 {
		return
	}
	fmt.Println()
	yellow.Printf("⚠ %d site(s) failed:\n", len(rep.Failures))
	for _, f := range rep.Failures {
		dim.Printf("    • %s: %s\n", f.URL, f.Reason)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
