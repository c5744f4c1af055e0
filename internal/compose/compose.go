// Package compose turns a question into the bot's reply: one completion call
// merged with the curated sources for the question's topic.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"telegram-cybersec-bot/internal/classify"
	"telegram-cybersec-bot/internal/knowledge"
	"telegram-cybersec-bot/internal/logging"
)

// MessageLimit bounds one outbound reply; longer replies are split.
const MessageLimit = 4000

// The question is embedded in a fixed instruction asking for an educational,
// ethical, concise answer.
const promptTemplate = "أجب على هذا السؤال في الأمن السيبراني بشكل تعليمي وأخلاقي وباختصار: %s"

const (
	answerHeader  = "💡 *الإجابة:*\n"
	sourcesHeader = "\n📚 *مصادر تعليمية مفيدة:*\n"
)

// ErrNoChoices reports a completion response missing the choices field.
var ErrNoChoices = errors.New("completion response has no choices")

// CompletionClient is the slice of the OpenAI client the composer needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// SourceLookup resolves a topic to its curated sources.
type SourceLookup interface {
	Get(topic string) []knowledge.SourceEntry
}

// Params are the fixed completion request parameters.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// ChunkLimit overrides MessageLimit when positive.
	ChunkLimit int
}

// Composer merges one completion with curated sources into a bounded reply.
type Composer struct {
	llm        CompletionClient
	classifier *classify.Classifier
	sources    SourceLookup
	params     Params
	limit      int
}

// New builds a composer. The classifier and source lookup are read-only and
// shared; the completion client pools its own connections.
func New(llm CompletionClient, classifier *classify.Classifier, sources SourceLookup, params Params) *Composer {
	limit := params.ChunkLimit
	if limit <= 0 {
		limit = MessageLimit
	}
	return &Composer{llm: llm, classifier: classifier, sources: sources, params: params, limit: limit}
}

// Compose answers one question. The returned slice holds one reply text per
// transport-sized chunk, in emission order. An upstream failure comes back as
// an error and the knowledge base is not consulted: classification happens
// up front, the source lookup only after a successful completion.
func (c *Composer) Compose(ctx context.Context, question string) ([]string, error) {
	log := logging.Ctx(ctx)
	topic := c.classifier.Classify(question)

	log.Info().Str("event", "completion_request").Str("model", c.params.Model).Str("topic", topic).Str("snippet", logging.Snippet(question, 30)).Msg("sending question upstream")
	resp, err := c.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, question)},
		},
		Temperature: c.params.Temperature,
		MaxTokens:   c.params.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Info().Str("event", "completion_response").Str("snippet", logging.Snippet(answer, 30)).Msg("received answer")

	var sb strings.Builder
	sb.WriteString(answerHeader)
	sb.WriteString(answer)
	sb.WriteString("\n")
	if topic != "" {
		if sources := c.sources.Get(topic); len(sources) > 0 {
			sb.WriteString(sourcesHeader)
			for _, s := range sources {
				fmt.Fprintf(&sb, "- [%s](%s)\n", s.Title, s.URL)
			}
		}
	}
	return SplitMessage(sb.String(), c.limit), nil
}

// SplitMessage slices text into chunks of at most limit runes. Slicing is
// positional, not sentence aware; chunks come back in text order.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var parts []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
