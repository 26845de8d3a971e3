package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/gonum/floats"
	"github.com/zypric/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent classifier calls when none is configured
const DefaultWorkers = 8

// ReviewAnalyzer runs the sentiment and emotion classifiers over a review list
type ReviewAnalyzer struct {
	classifiers *AnalysisContext
	workers     int
}

// NewReviewAnalyzer creates an analyzer that runs at most workers classifier calls at once
func NewReviewAnalyzer(classifiers *AnalysisContext, workers int) *ReviewAnalyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &ReviewAnalyzer{classifiers: classifiers, workers: workers}
}

// Analyze classifies every review with both classifiers. Row i of each table
// belongs to review i whatever order the calls finish in. The first failing
// call aborts the whole list and cancels the calls still running; the error
// is a *domain.ClassificationError naming the classifier and review index.
func (a *ReviewAnalyzer) Analyze(ctx context.Context, reviews []string) (*domain.ReviewAnalysis, error) {
	analysis := &domain.ReviewAnalysis{
		Sentiment: make([]domain.AnalysisRow, len(reviews)),
		Emotion:   make([]domain.AnalysisRow, len(reviews)),
	}
	if len(reviews) == 0 {
		return analysis, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, review := range reviews {
		g.Go(func() error {
			return a.classifyInto(gctx, a.classifiers.Sentiment, i, review, analysis.Sentiment)
		})
		g.Go(func() error {
			if err := a.classifyInto(gctx, a.classifiers.Emotion, i, review, analysis.Emotion); err != nil {
				return err
			}
			analysis.Emotion[i].Emoji = domain.EmojiFor(analysis.Emotion[i].Label)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("[Analyzer] analysis of %d reviews aborted: %v", len(reviews), err)
		return nil, err
	}

	return analysis, nil
}

func (a *ReviewAnalyzer) classifyInto(ctx context.Context, classifier domain.TextClassifier, i int, review string, table []domain.AnalysisRow) error {
	if err := ctx.Err(); err != nil {
		return &domain.ClassificationError{Classifier: classifier.Name(), Index: i, Err: err}
	}

	result, err := classifier.Classify(ctx, review)
	if err != nil {
		return &domain.ClassificationError{Classifier: classifier.Name(), Index: i, Err: err}
	}

	table[i] = domain.AnalysisRow{Review: review, Label: result.Label, Score: result.Score}
	return nil
}

// Summarize aggregates the tables of one product. The dominant emotion is the
// most frequent label; ties go to the higher summed score, then to the label
// that sorts first.
func Summarize(analysis *domain.ReviewAnalysis) domain.AnalysisSummary {
	summary := domain.AnalysisSummary{ReviewCount: len(analysis.Sentiment)}
	if summary.ReviewCount == 0 {
		return summary
	}

	sentimentScores := make([]float64, len(analysis.Sentiment))
	for i, row := range analysis.Sentiment {
		sentimentScores[i] = row.Score
		if isPositiveLabel(row.Label) {
			summary.PositiveCount++
		}
	}
	summary.PositiveRatio = float64(summary.PositiveCount) / float64(summary.ReviewCount)
	summary.MeanSentimentScore = floats.Sum(sentimentScores) / float64(len(sentimentScores))

	if len(analysis.Emotion) == 0 {
		return summary
	}

	emotionScores := make([]float64, len(analysis.Emotion))
	counts := make(map[string]int)
	totals := make(map[string]float64)
	for i, row := range analysis.Emotion {
		emotionScores[i] = row.Score
		counts[row.Label]++
		totals[row.Label] += row.Score
	}
	summary.MeanEmotionScore = floats.Sum(emotionScores) / float64(len(emotionScores))

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		li, lj := labels[i], labels[j]
		if counts[li] != counts[lj] {
			return counts[li] > counts[lj]
		}
		if totals[li] != totals[lj] {
			return totals[li] > totals[lj]
		}
		return li < lj
	})
	summary.DominantEmotion = labels[0]
	summary.DominantEmoji = domain.EmojiFor(labels[0])

	return summary
}

// isPositiveLabel accepts the spellings used by the supported sentiment models
func isPositiveLabel(label string) bool {
	switch label {
	case "POSITIVE", "positive", "POS", "LABEL_1":
		return true
	default:
		return false
	}
}
