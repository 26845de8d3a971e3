package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/zypric/backend/internal/domain"
)

const systemPrompt = `You classify the emotion expressed in a single customer product review.
Reply with JSON only, using exactly one of these labels: %s.
"score" is your confidence between 0 and 1.`

// ClassifierConfig configures an OpenAI-compatible chat model (OpenAI, llama.cpp server, ...)
type ClassifierConfig struct {
	Name    string
	Model   string
	BaseURL string // must include the /v1 suffix for llama.cpp
	APIKey  string
	Timeout time.Duration
}

// EmotionReply is the structured answer requested from the model
type EmotionReply struct {
	Label string  `json:"label" jsonschema:"title=Label,description=The dominant emotion of the review."`
	Score float64 `json:"score" jsonschema:"title=Score,description=Confidence between 0 and 1.,minimum=0,maximum=1"`
}

// Classifier asks a chat model for an emotion label constrained by a JSON schema
type Classifier struct {
	client openai.Client
	name   string
	model  string
	labels []string
	format openai.ChatCompletionNewParamsResponseFormatUnion
}

// NewClassifier creates an emotion classifier over the known emotion labels
func NewClassifier(cfg ClassifierConfig) *Classifier {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		// llama.cpp ignores the key but the SDK requires one
		opts = append(opts, option.WithAPIKey("none"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	name := cfg.Name
	if name == "" {
		name = "emotion"
	}
	labels := domain.KnownEmotionLabels()

	return &Classifier{
		client: openai.NewClient(opts...),
		name:   name,
		model:  cfg.Model,
		labels: labels,
		format: responseFormat(labels),
	}
}

// Name returns the classifier name
func (c *Classifier) Name() string {
	return c.name
}

// Classify asks the model for the review's emotion. Temperature is 0 for repeatable answers.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Classification{}, fmt.Errorf("%w: %w", domain.ErrClassification, domain.ErrEmptyText)
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(systemPrompt, strings.Join(c.labels, ", "))),
			openai.UserMessage(text),
		},
		Model:          shared.ChatModel(c.model),
		ResponseFormat: c.format,
		Temperature:    openai.Float(0),
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: %s completion: %v", domain.ErrClassification, c.name, err)
	}
	if len(completion.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: %s completion has no choices", domain.ErrClassification, c.name)
	}

	return c.parseReply(completion.Choices[0].Message.Content)
}

func (c *Classifier) parseReply(content string) (domain.Classification, error) {
	var reply EmotionReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		log.Printf("[LLM] %s unparsable reply: %q", c.name, content)
		return domain.Classification{}, fmt.Errorf("%w: decoding reply: %v", domain.ErrClassification, err)
	}

	label := strings.ToLower(strings.TrimSpace(reply.Label))
	if domain.ParseEmotion(label) == domain.EmotionUnknown {
		return domain.Classification{}, fmt.Errorf("%w: %s returned unknown label %q", domain.ErrClassification, c.name, reply.Label)
	}

	score := reply.Score
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	return domain.Classification{Label: label, Score: score}, nil
}

// responseFormat builds the strict JSON schema response format for EmotionReply
func responseFormat(labels []string) openai.ChatCompletionNewParamsResponseFormatUnion {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(EmotionReply{})
	if prop, ok := schema.Properties.Get("label"); ok {
		for _, l := range labels {
			prop.Enum = append(prop.Enum, l)
		}
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "emotion_reply",
				Description: openai.String("Emotion label and confidence for one review"),
				Schema:      schema,
				Strict:      openai.Bool(true),
			},
		},
	}
}
