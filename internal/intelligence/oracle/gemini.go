package oracle

import (
	"context"

	"google.golang.org/genai"
)

type geminiService struct {
	client *genai.Client
}

func newGeminiService(ctx context.Context, cfg Config) (*geminiService, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, callFailed(BackendGemini, err)
	}
	return &geminiService{client: client}, nil
}

func (s *geminiService) Complete(ctx context.Context, req Request) (string, error) {
	var gc *genai.GenerateContentConfig
	if req.JSONMode {
		gc = &genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	resp, err := s.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", callFailed(BackendGemini, err)
	}
	text := resp.Text()
	if text == "" {
		return "", emptyResponse(BackendGemini)
	}
	return text, nil
}
