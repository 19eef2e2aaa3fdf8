package agent

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/xhad/sanket/internal/models"
)

type AnalyzeRequest struct {
	BillName string
	Document []byte // uploaded PDF, takes precedence over BillName
	FileName string
	Language models.Language
	UserID   string // history is recorded only when set
}

// Analyze resolves the bill text and runs the summary, sentiment, impact and
// news steps concurrently. A failing step fills its own slot of the report
// and never blocks the others. Only text resolution can fail the call.
func (a *Agent) Analyze(ctx context.Context, req AnalyzeRequest) (models.AnalysisReport, error) {
	const op = "analyze"

	billName := strings.TrimSpace(req.BillName)
	var text, source string
	switch {
	case len(req.Document) > 0:
		text = strings.TrimSpace(a.config.ExtractDocument(req.Document))
		if text == "" {
			return models.AnalysisReport{}, models.NewError(models.KindExtraction, op,
				"Could not read uploaded PDF.", nil)
		}
		source = "Uploaded File: " + req.FileName
		if billName == "" {
			billName = billNameFromFile(req.FileName)
		}
	case billName != "":
		if a.config.Fetcher == nil {
			return models.AnalysisReport{}, models.NewError(models.KindConfiguration, op,
				"Google API keys are not configured.", nil)
		}
		result, err := a.config.Fetcher.FetchBillText(ctx, billName)
		if err != nil {
			return models.AnalysisReport{}, err
		}
		text, source = result.Text, result.SourceURL
	default:
		return models.AnalysisReport{}, models.NewError(models.KindValidation, op,
			"Provide a bill name or PDF file.", nil)
	}

	report := models.AnalysisReport{
		BillName:  billName,
		SourceURL: source,
		BillText:  truncate(text, reportTextLimit),
	}

	var g errgroup.Group
	g.Go(func() error {
		report.Summary = a.Summarize(ctx, text, billName, req.Language)
		return nil
	})
	g.Go(func() error {
		if a.config.Sentiment == nil {
			report.Sentiment = models.SentimentError("Discussion service is not configured.")
			return nil
		}
		report.Sentiment = a.config.Sentiment.Estimate(ctx, billName)
		return nil
	})
	g.Go(func() error {
		scores, err := a.ScoreImpact(ctx, text)
		if err != nil {
			a.logger.Warn("impact scoring failed", "bill", billName, "error", err)
			report.ImpactError = models.UserMessage(err)
			return nil
		}
		report.ImpactScores = scores
		return nil
	})
	g.Go(func() error {
		news, err := a.FetchNews(ctx, billName)
		if err != nil {
			a.logger.Warn("news fetch failed", "bill", billName, "error", err)
			report.NewsError = models.UserMessage(err)
			news = []models.NewsItem{}
		}
		report.News = news
		return nil
	})
	_ = g.Wait()

	if req.UserID != "" && a.config.History != nil {
		err := a.config.History.AppendHistory(ctx, models.HistoryEntry{
			UserID:    req.UserID,
			BillName:  billName,
			Summary:   report.Summary,
			Sentiment: report.Sentiment.Display(),
			SourceURL: source,
		})
		if err != nil {
			a.logger.Error("history save failed", "user", req.UserID, "error", err)
		}
	}

	return report, nil
}

// billNameFromFile turns "Digital_Data_Bill.pdf" into "Digital Data Bill".
func billNameFromFile(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Uploaded Bill"
	}
	name = filepath.Base(name)
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
