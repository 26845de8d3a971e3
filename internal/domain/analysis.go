package domain

// Classification is the output of a single classifier call
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // 0-1
}

// AnalysisRow is one classified review
type AnalysisRow struct {
	Review string  `json:"review"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Emoji  string  `json:"emoji,omitempty"` // emotion rows only
}

// ReviewAnalysis holds the sentiment and emotion tables for one review list.
// Row i of each table corresponds to review i.
type ReviewAnalysis struct {
	Sentiment []AnalysisRow `json:"sentimentTable"`
	Emotion   []AnalysisRow `json:"emotionTable"`
}

// AnalysisSummary aggregates a ReviewAnalysis for a product
type AnalysisSummary struct {
	ReviewCount        int     `json:"reviewCount"`
	PositiveCount      int     `json:"positiveCount"`
	PositiveRatio      float64 `json:"positiveRatio"`
	MeanSentimentScore float64 `json:"meanSentimentScore"`
	DominantEmotion    string  `json:"dominantEmotion,omitempty"`
	DominantEmoji      string  `json:"dominantEmoji,omitempty"`
	MeanEmotionScore   float64 `json:"meanEmotionScore"`
}

// ProductAnalysis is one search hit with its analysis. Error is set instead of
// the tables when classification failed for this product.
type ProductAnalysis struct {
	Product        Product          `json:"product"`
	SentimentTable []AnalysisRow    `json:"sentimentTable"`
	EmotionTable   []AnalysisRow    `json:"emotionTable"`
	Summary        *AnalysisSummary `json:"summary,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// SearchResult is what the display surface receives for one query
type SearchResult struct {
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Results []ProductAnalysis `json:"results"`
}

// WordWeight is one word-cloud token. Weight is Count divided by the largest count.
type WordWeight struct {
	Word   string  `json:"word"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}
