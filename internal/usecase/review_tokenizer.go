package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/zypric/backend/internal/domain"
)

// Words of two or more letters/digits, apostrophes allowed inside
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}']+`)

// reviewStopWords are common English words left out of word clouds
var reviewStopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true, "against": true,
	"all": true, "also": true, "am": true, "an": true, "and": true, "any": true, "are": true,
	"aren't": true, "as": true, "at": true, "be": true, "because": true, "been": true,
	"before": true, "being": true, "below": true, "between": true, "both": true, "but": true,
	"by": true, "can": true, "can't": true, "cannot": true, "could": true, "couldn't": true,
	"did": true, "didn't": true, "do": true, "does": true, "doesn't": true, "doing": true,
	"don't": true, "down": true, "during": true, "each": true, "else": true, "ever": true,
	"few": true, "for": true, "from": true, "further": true, "get": true, "had": true,
	"hadn't": true, "has": true, "hasn't": true, "have": true, "haven't": true, "having": true,
	"he": true, "he'd": true, "he'll": true, "her": true, "here": true, "hers": true,
	"herself": true, "him": true, "himself": true, "his": true, "how": true, "however": true,
	"i": true, "i'd": true, "i'll": true, "i'm": true, "i've": true, "if": true, "in": true,
	"into": true, "is": true, "isn't": true, "it": true, "it's": true, "its": true,
	"itself": true, "just": true, "let's": true, "me": true, "more": true, "most": true,
	"mustn't": true, "my": true, "myself": true, "no": true, "nor": true, "not": true,
	"of": true, "off": true, "on": true, "once": true, "only": true, "or": true, "other": true,
	"otherwise": true, "ought": true, "our": true, "ours": true, "ourselves": true, "out": true,
	"over": true, "own": true, "same": true, "shall": true, "shan't": true, "she": true,
	"she'd": true, "she'll": true, "should": true, "shouldn't": true, "since": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "that's": true, "the": true,
	"their": true, "theirs": true, "them": true, "themselves": true, "then": true, "there": true,
	"there's": true, "therefore": true, "these": true, "they": true, "they'd": true,
	"they'll": true, "they're": true, "they've": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true, "up": true,
	"very": true, "was": true, "wasn't": true, "we": true, "we'd": true, "we'll": true,
	"we're": true, "we've": true, "were": true, "weren't": true, "what": true, "what's": true,
	"when": true, "where": true, "which": true, "while": true, "who": true, "whom": true,
	"why": true, "with": true, "won't": true, "would": true, "wouldn't": true, "you": true,
	"you'd": true, "you'll": true, "you're": true, "you've": true, "your": true, "yours": true,
	"yourself": true, "yourselves": true,
}

// ReviewTokenizer splits review text into word-cloud tokens
type ReviewTokenizer struct {
	enableDebugLogging bool
}

// NewReviewTokenizer creates a new review tokenizer
func NewReviewTokenizer(enableDebugLogging bool) *ReviewTokenizer {
	return &ReviewTokenizer{
		enableDebugLogging: enableDebugLogging,
	}
}

// Tokenize lowercases text and returns its words, minus stop words, bare numbers
// and a trailing possessive 's
func (p *ReviewTokenizer) Tokenize(text string) []string {
	matches := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(matches))

	for _, word := range matches {
		word = strings.TrimRight(word, "'")
		if reviewStopWords[word] {
			continue
		}
		word = strings.TrimSuffix(word, "'s")
		if len([]rune(word)) < 2 || isNumber(word) || reviewStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}

	if p.enableDebugLogging {
		log.Printf("[TOKENIZE] Input: %q → Tokens: %v", text, tokens)
	}

	return tokens
}

// Frequencies counts tokens across all reviews. The result is sorted by count
// descending, then alphabetically, so equal counts have a stable order.
func (p *ReviewTokenizer) Frequencies(reviews []string) []domain.WordWeight {
	counts := make(map[string]int)
	for _, review := range reviews {
		for _, token := range p.Tokenize(review) {
			counts[token]++
		}
	}

	words := make([]domain.WordWeight, 0, len(counts))
	maxCount := 0
	for word, count := range counts {
		words = append(words, domain.WordWeight{Word: word, Count: count})
		if count > maxCount {
			maxCount = count
		}
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	for i := range words {
		words[i].Weight = float64(words[i].Count) / float64(maxCount)
	}

	return words
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
