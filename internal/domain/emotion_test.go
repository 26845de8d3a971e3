package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmojiFor_KnownLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"happy", "😄"},
		{"joy", "😄"},
		{"sad", "😢"},
		{"sadness", "😢"},
		{"angry", "😠"},
		{"anger", "😠"},
		{"surprised", "😲"},
		{"surprise", "😲"},
		{"neutral", "😐"},
		{"fear", "😱"},
		{"disgust", "🥴"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, EmojiFor(tt.label))
		})
	}
}

func TestEmojiFor_IsCaseSensitive(t *testing.T) {
	assert.Equal(t, DefaultEmoji, EmojiFor("Joy"))
	assert.Equal(t, DefaultEmoji, EmojiFor("FEAR"))
	assert.Equal(t, DefaultEmoji, EmojiFor(" joy"))
}

func TestEmojiFor_UnknownLabelsFallBack(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-😄é")

	for i := 0; i < 1000; i++ {
		n := rng.Intn(12)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		label := string(runes)
		if _, known := emotionLabels[label]; known {
			continue
		}
		if got := EmojiFor(label); got != DefaultEmoji {
			t.Fatalf("EmojiFor(%q) = %q, want %q", label, got, DefaultEmoji)
		}
	}
}

func TestParseEmotion(t *testing.T) {
	assert.Equal(t, EmotionJoy, ParseEmotion("happy"))
	assert.Equal(t, EmotionAnger, ParseEmotion("anger"))
	assert.Equal(t, EmotionUnknown, ParseEmotion("optimism"))
	assert.Equal(t, "unknown", ParseEmotion("").String())

	for _, label := range KnownEmotionLabels() {
		e := ParseEmotion(label)
		assert.NotEqual(t, EmotionUnknown, e, label)
		assert.Equal(t, label, e.String())
	}
}

func TestClassificationError(t *testing.T) {
	cause := errors.New("model exploded")
	err := fmt.Errorf("analyze: %w", &ClassificationError{Classifier: "sentiment", Index: 3, Err: cause})

	assert.ErrorIs(t, err, ErrClassification)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "sentiment classifier failed on review 3")

	var ce *ClassificationError
	if assert.True(t, errors.As(err, &ce)) {
		assert.Equal(t, 3, ce.Index)
	}
}
