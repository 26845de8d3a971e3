package vader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drankou/go-vader/vader"
	"github.com/zypric/backend/internal/domain"
)

// Labels emitted by the VADER classifier, spelled like the transformer sentiment models
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

// Classifier is an offline sentiment classifier backed by the VADER lexicon.
// The analyzer is read-only after construction, so Classify is safe for concurrent use.
type Classifier struct {
	sia *vader.SentimentIntensityAnalyzer
}

// NewClassifier loads the VADER word and emoji lexicons. Blank and malformed
// lines are dropped first, since the lexicon parser indexes every line's
// second column and exits the process on an unparsable score.
func NewClassifier(lexiconPath, emojiLexiconPath string) (*Classifier, error) {
	dir, err := os.MkdirTemp("", "vader-lexicon-")
	if err != nil {
		return nil, fmt.Errorf("loading vader lexicons: %w", err)
	}
	defer os.RemoveAll(dir)

	cleanLexicon, err := cleanLexiconFile(lexiconPath, filepath.Join(dir, "vader_lexicon.txt"), true)
	if err != nil {
		return nil, fmt.Errorf("loading vader lexicons: %w", err)
	}
	cleanEmoji, err := cleanLexiconFile(emojiLexiconPath, filepath.Join(dir, "emoji_utf8_lexicon.txt"), false)
	if err != nil {
		return nil, fmt.Errorf("loading vader lexicons: %w", err)
	}

	sia := &vader.SentimentIntensityAnalyzer{}
	if err := initAnalyzer(sia, cleanLexicon, cleanEmoji); err != nil {
		return nil, fmt.Errorf("loading vader lexicons: %w", err)
	}
	return &Classifier{sia: sia}, nil
}

func initAnalyzer(sia *vader.SentimentIntensityAnalyzer, lexiconPath, emojiLexiconPath string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lexicon parser panicked: %v", rec)
		}
	}()
	return sia.Init(lexiconPath, emojiLexiconPath)
}

// cleanLexiconFile copies the tab-separated lines of src that have at least two
// columns into dst, without a trailing newline. With numeric set the second
// column must parse as a float.
func cleanLexiconFile(src, dst string, numeric bool) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}

	var kept []string
	dropped := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		values := strings.Split(line, "\t")
		if len(values) < 2 || values[0] == "" {
			if strings.TrimSpace(line) != "" {
				dropped++
			}
			continue
		}
		if numeric {
			if _, err := strconv.ParseFloat(values[1], 64); err != nil {
				dropped++
				continue
			}
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("%s has no lexicon entries", src)
	}
	if dropped > 0 {
		log.Printf("[VADER] skipped %d malformed lines in %s", dropped, src)
	}

	if err := os.WriteFile(dst, []byte(strings.Join(kept, "\n")), 0o600); err != nil {
		return "", err
	}
	return dst, nil
}

// Name returns the classifier name
func (c *Classifier) Name() string {
	return "sentiment"
}

// Classify maps the VADER compound score onto a binary label.
// compound >= 0 is positive with score (1+compound)/2, otherwise negative with (1-compound)/2.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if err := ctx.Err(); err != nil {
		return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Classification{}, fmt.Errorf("%w: %w", domain.ErrClassification, domain.ErrEmptyText)
	}

	compound := c.sia.PolarityScores(text)["compound"]
	if compound >= 0 {
		return domain.Classification{Label: LabelPositive, Score: (1 + compound) / 2}, nil
	}
	return domain.Classification{Label: LabelNegative, Score: (1 - compound) / 2}, nil
}
