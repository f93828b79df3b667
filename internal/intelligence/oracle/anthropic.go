package oracle

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic has no JSON response mode; the system prompt asks for JSON and
// the gateway strips any code fence around it.
type anthropicService struct {
	client    anthropic.Client
	maxTokens int64
}

func newAnthropicService(cfg Config) *anthropicService {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicService{client: anthropic.NewClient(opts...), maxTokens: int64(cfg.MaxTokens)}
}

func (s *anthropicService) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: s.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.JSONMode {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", callFailed(BackendAnthropic, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if t, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(t.Text)
		}
	}
	if b.Len() == 0 {
		return "", emptyResponse(BackendAnthropic)
	}
	return b.String(), nil
}
