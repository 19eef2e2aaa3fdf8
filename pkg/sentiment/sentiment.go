// Package sentiment estimates public opinion about a bill from forum discussion.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/forum"
)

const noPostsNote = "No relevant discussion posts were found for this bill."

// Forum is the discussion service the estimator reads from.
type Forum interface {
	SearchPosts(ctx context.Context, q forum.Query) ([]forum.Post, error)
	Configured() bool
}

// Scorer returns a polarity in [-1, 1] for a piece of text.
type Scorer interface {
	Polarity(text string) float64
}

type EstimatorConfig struct {
	Forum                 Forum
	Scorer                Scorer
	Communities           []string
	SubmissionLimit       int
	CommentsPerSubmission int
	MinYear               int
	MaxYear               int
	CutoffYear            int
	PositiveThreshold     float64
	NegativeThreshold     float64
	Logger                *slog.Logger
	Now                   func() time.Time
}

type Estimator struct {
	config EstimatorConfig
	logger *slog.Logger
}

var yearToken = regexp.MustCompile(`\b\d{4}\b`)

func NewWithConfig(config EstimatorConfig) *Estimator {
	if config.Scorer == nil {
		config.Scorer = NewVaderScorer()
	}
	if len(config.Communities) == 0 {
		config.Communities = []string{"india", "IndianPolitics", "indianews", "unitedstatesofindia"}
	}
	if config.SubmissionLimit == 0 {
		config.SubmissionLimit = 25
	}
	if config.CommentsPerSubmission == 0 {
		config.CommentsPerSubmission = 5
	}
	if config.MinYear == 0 {
		config.MinYear = 1900
	}
	if config.MaxYear == 0 {
		config.MaxYear = 2099
	}
	if config.CutoffYear == 0 {
		config.CutoffYear = 2020
	}
	if config.PositiveThreshold == 0 {
		config.PositiveThreshold = 0.1
	}
	if config.NegativeThreshold == 0 {
		config.NegativeThreshold = -0.1
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Estimator{config: config, logger: logging.OrDefault(config.Logger)}
}

// Estimate classifies forum posts about billName into positive, negative and
// neutral percentages. Bills dated before the cutoff year get a note and the
// forum is never queried.
func (e *Estimator) Estimate(ctx context.Context, billName string) models.SentimentResult {
	year, hasYear := e.billYear(billName)
	if hasYear && year < e.config.CutoffYear {
		return models.SentimentNote(fmt.Sprintf(
			"Sentiment analysis is not available for bills introduced before %d.", e.config.CutoffYear))
	}

	if e.config.Forum == nil || !e.config.Forum.Configured() {
		return models.SentimentError("Discussion service is not configured.")
	}

	posts, err := e.config.Forum.SearchPosts(ctx, forum.Query{
		Communities:     e.config.Communities,
		Text:            billName,
		Sort:            "relevance",
		TimeWindow:      e.timeWindow(year, hasYear),
		Limit:           e.config.SubmissionLimit,
		CommentsPerPost: e.config.CommentsPerSubmission,
	})
	if err != nil {
		e.logger.Warn("forum search failed", "bill", billName, "error", err)
		return models.SentimentError(models.UserMessage(err))
	}

	var units []string
	for _, p := range posts {
		if t := strings.TrimSpace(p.Title); t != "" {
			units = append(units, t)
		}
		units = append(units, p.TopComments...)
	}
	if len(units) == 0 {
		return models.SentimentNote(noPostsNote)
	}

	var positive, negative, neutral int
	for _, u := range units {
		switch score := e.config.Scorer.Polarity(u); {
		case score > e.config.PositiveThreshold:
			positive++
		case score < e.config.NegativeThreshold:
			negative++
		default:
			neutral++
		}
	}

	total := float64(len(units))
	return models.SentimentResult{
		Positive: int(math.Round(float64(positive) / total * 100)),
		Negative: int(math.Round(float64(negative) / total * 100)),
		Neutral:  int(math.Round(float64(neutral) / total * 100)),
	}
}

// billYear returns the first standalone four-digit token inside the valid window.
func (e *Estimator) billYear(billName string) (int, bool) {
	for _, token := range yearToken.FindAllString(billName, -1) {
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if year >= e.config.MinYear && year <= e.config.MaxYear {
			return year, true
		}
	}
	return 0, false
}

func (e *Estimator) timeWindow(year int, hasYear bool) string {
	if hasYear && year < e.config.Now().Year() {
		return "all"
	}
	return "year"
}
