package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/xhad/sanket/internal/app"
	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/agent"
	cfgPkg "github.com/xhad/sanket/pkg/config"
)

type Config struct {
	ConfigPath string
	Command    string
	Args       []string
	BillName   string
	FilePath   string
	Language   string
	OlderYear  string
	Profile    models.UserProfile
	LogLevel   string
}

func main() {
	config := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sanket [flags] <command>

Commands:
  analyze   summarize a bill and report sentiment, impact and news
  compare   compare a bill with an older version (-older-year)
  schemes   find welfare schemes for a profile
  chat      ask questions about a bill interactively

Flags:
`)
	flag.PrintDefaults()
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&config.BillName, "bill", "", "Bill name to search for")
	flag.StringVar(&config.FilePath, "file", "", "Path to a bill PDF")
	flag.StringVar(&config.Language, "lang", "English", "Response language (English, Hinglish)")
	flag.StringVar(&config.OlderYear, "older-year", "", "Year of the older version to compare against")
	flag.StringVar(&config.Profile.Occupation, "occupation", "", "Profile occupation")
	flag.StringVar(&config.Profile.State, "state", "", "Profile state")
	flag.StringVar(&config.Profile.Category, "category", "", "Profile social category")
	flag.StringVar(&config.Profile.Sex, "sex", "", "Profile sex")
	flag.StringVar(&config.Profile.MaritalStatus, "marital-status", "", "Profile marital status")
	flag.StringVar(&config.Profile.ParentalStatus, "parental-status", "", "Profile parental status")
	flag.BoolVar(&config.Profile.IsOnlyGirlChild, "only-girl-child", false, "Profile is an only girl child")
	flag.StringVar(&config.LogLevel, "log-level", "error", "Log level")
	flag.Usage = usage
	flag.Parse()

	config.Command = flag.Arg(0)
	config.Args = flag.Args()
	return config
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("sources"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// spin keeps a spinner moving until done is closed.
func spin(bar *progressbar.ProgressBar, done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			bar.Finish()
			fmt.Print("\r")
			return
		case <-ticker.C:
			bar.Add(1)
		}
	}
}

func run(ctx context.Context, config Config) error {
	cfg, err := cfgPkg.LoadConfig(config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var fetched int32
	sourceBar := getProgressBar(-1, "📄 Reading sources...")
	components, err := app.New(ctx, cfg, app.Options{
		Logger: logging.NewWithWriter(os.Stderr, config.LogLevel),
		OnProgress: func(url string) {
			atomic.AddInt32(&fetched, 1)
			sourceBar.Describe(color.BlueString("📄 Reading %s", url))
			sourceBar.Add(1)
		},
		SkipStore: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer components.Close()

	lang := models.ParseLanguage(config.Language)

	switch config.Command {
	case "analyze":
		report, err := analyze(ctx, components.Agent, config, lang)
		sourceBar.Finish()
		if err != nil {
			return err
		}
		printReport(report, int(atomic.LoadInt32(&fetched)))
	case "compare":
		if config.BillName == "" || config.OlderYear == "" {
			return fmt.Errorf("compare requires -bill and -older-year")
		}
		comparison := withSpinner("⚖️  Comparing versions...", func() string {
			return components.Agent.CompareBills(ctx, config.BillName, config.OlderYear, lang)
		})
		sourceBar.Finish()
		color.Cyan("\nComparison")
		fmt.Println(comparison)
	case "schemes":
		if config.Profile.IsEmpty() {
			return fmt.Errorf("schemes requires at least one profile flag")
		}
		var match models.SchemeMatch
		var findErr error
		withSpinner("🔍 Searching schemes...", func() string {
			match, findErr = components.Agent.FindSchemes(ctx, config.Profile)
			return ""
		})
		if findErr != nil {
			return fmt.Errorf("%s", models.UserMessage(findErr))
		}
		printSchemes(match)
	case "chat":
		report, err := analyze(ctx, components.Agent, config, lang)
		sourceBar.Finish()
		if err != nil {
			return err
		}
		return chatLoop(ctx, components.Agent, report, lang)
	default:
		usage()
		return fmt.Errorf("unknown command %q", config.Command)
	}
	return nil
}

func analyze(ctx context.Context, a *agent.Agent, config Config, lang models.Language) (models.AnalysisReport, error) {
	req := agent.AnalyzeRequest{BillName: config.BillName, Language: lang}
	if config.FilePath != "" {
		data, err := os.ReadFile(config.FilePath)
		if err != nil {
			return models.AnalysisReport{}, fmt.Errorf("failed to read %s: %w", config.FilePath, err)
		}
		req.Document = data
		req.FileName = filepath.Base(config.FilePath)
	}

	var report models.AnalysisReport
	var err error
	withSpinner("🤖 Analyzing bill...", func() string {
		report, err = a.Analyze(ctx, req)
		return ""
	})
	if err != nil {
		return report, fmt.Errorf("%s", models.UserMessage(err))
	}
	return report, nil
}

func withSpinner(description string, fn func() string) string {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		spin(getSpinner(description), done)
		close(finished)
	}()
	out := fn()
	close(done)
	<-finished
	return out
}

func printReport(report models.AnalysisReport, sources int) {
	color.Green("\n✓ %s", report.BillName)
	color.New(color.Faint).Printf("Source: %s (%d sources read)\n", report.SourceURL, sources)

	color.Cyan("\nSummary")
	fmt.Println(report.Summary)

	color.Cyan("\nPublic sentiment")
	switch {
	case report.Sentiment.Note != "":
		fmt.Println(report.Sentiment.Note)
	case report.Sentiment.Error != "":
		color.Red(report.Sentiment.Error)
	default:
		fmt.Printf("%s %d%%  %s %d%%  %s %d%%\n",
			color.GreenString("positive"), report.Sentiment.Positive,
			color.RedString("negative"), report.Sentiment.Negative,
			color.YellowString("neutral"), report.Sentiment.Neutral)
	}

	color.Cyan("\nImpact")
	if report.ImpactError != "" {
		color.Red(report.ImpactError)
	}
	groups := make([]string, 0, len(report.ImpactScores))
	for group := range report.ImpactScores {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return report.ImpactScores[groups[i]].Score > report.ImpactScores[groups[j]].Score
	})
	for _, group := range groups {
		impact := report.ImpactScores[group]
		fmt.Printf("  %-24s %3d  %s\n", group, impact.Score, impact.Reason)
	}

	color.Cyan("\nNews")
	if report.NewsError != "" {
		color.Red(report.NewsError)
	}
	for _, item := range report.News {
		fmt.Printf("  • %s\n    %s\n", item.Title, color.BlueString(item.Link))
	}
}

func printSchemes(match models.SchemeMatch) {
	if len(match.Schemes) == 0 {
		color.Yellow("No matching schemes were found.")
		return
	}
	for _, scheme := range match.Schemes {
		color.Green("\n%s", scheme.SchemeName)
		fmt.Println(scheme.Summary)
		fmt.Printf("Eligibility: %s\n", scheme.Eligibility)
		fmt.Println(color.BlueString(scheme.Link))
	}
}
