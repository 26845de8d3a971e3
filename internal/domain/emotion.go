package domain

// Emotion is the closed set of emotions the display surface knows a glyph for
type Emotion int

const (
	EmotionUnknown Emotion = iota
	EmotionJoy
	EmotionSadness
	EmotionAnger
	EmotionSurprise
	EmotionNeutral
	EmotionFear
	EmotionDisgust
)

// DefaultEmoji is shown for labels outside the known set
const DefaultEmoji = "🤔"

// emotionLabels maps exact classifier labels to emotions. Lookup is case-sensitive.
var emotionLabels = map[string]Emotion{
	"happy":     EmotionJoy,
	"joy":       EmotionJoy,
	"sad":       EmotionSadness,
	"sadness":   EmotionSadness,
	"angry":     EmotionAnger,
	"anger":     EmotionAnger,
	"surprised": EmotionSurprise,
	"surprise":  EmotionSurprise,
	"neutral":   EmotionNeutral,
	"fear":      EmotionFear,
	"disgust":   EmotionDisgust,
}

// ParseEmotion resolves a classifier label; unknown labels map to EmotionUnknown
func ParseEmotion(label string) Emotion {
	if e, ok := emotionLabels[label]; ok {
		return e
	}
	return EmotionUnknown
}

// Emoji returns the display glyph for the emotion
func (e Emotion) Emoji() string {
	switch e {
	case EmotionJoy:
		return "😄"
	case EmotionSadness:
		return "😢"
	case EmotionAnger:
		return "😠"
	case EmotionSurprise:
		return "😲"
	case EmotionNeutral:
		return "😐"
	case EmotionFear:
		return "😱"
	case EmotionDisgust:
		return "🥴"
	default:
		return DefaultEmoji
	}
}

func (e Emotion) String() string {
	switch e {
	case EmotionJoy:
		return "joy"
	case EmotionSadness:
		return "sadness"
	case EmotionAnger:
		return "anger"
	case EmotionSurprise:
		return "surprise"
	case EmotionNeutral:
		return "neutral"
	case EmotionFear:
		return "fear"
	case EmotionDisgust:
		return "disgust"
	default:
		return "unknown"
	}
}

// EmojiFor maps a raw emotion label to its glyph. It never fails.
func EmojiFor(label string) string {
	return ParseEmotion(label).Emoji()
}

// KnownEmotionLabels lists the canonical labels a classifier may be asked to emit
func KnownEmotionLabels() []string {
	return []string{"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise"}
}
