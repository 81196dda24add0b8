// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat endpoint, Gemini's included.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", NewValidationError("completion", "prompt cannot be empty")
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return "", p.classify("completion", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Model:     p.config.Model,
			Message:   "empty completion response",
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) StreamComplete(ctx context.Context, req CompletionRequest, onDelta func(string) error) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return NewValidationError("streaming", "prompt cannot be empty")
	}

	chatReq := p.buildRequest(req)
	chatReq.Stream = true
	stream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return p.classify("streaming", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return p.classify("streaming", err)
		}

		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" && onDelta != nil {
				if cbErr := onDelta(delta); cbErr != nil {
					return cbErr
				}
			}
		}
	}
}

// HealthCheck sends a one-word prompt.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	_, err := p.Complete(ctx, CompletionRequest{Prompt: "Reply with the word OK.", Temperature: 0})
	return err
}

func (p *OpenAIProvider) buildRequest(req CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return chatReq
}

// classify turns client errors into AIError with a usable Type.
func (p *OpenAIProvider) classify(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AIError{Type: ErrTypeNetwork, Operation: operation, Model: p.config.Model, Message: "request timed out", Cause: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		aiErr := &AIError{
			Type:      ErrTypeProvider,
			Code:      apiErr.HTTPStatusCode,
			Operation: operation,
			Model:     p.config.Model,
			Message:   apiErr.Message,
			Cause:     err,
		}
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			aiErr.Type = ErrTypeRateLimit
		case http.StatusUnauthorized, http.StatusForbidden:
			aiErr.Type = ErrTypeConfig
		}
		return aiErr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &AIError{Type: ErrTypeNetwork, Code: reqErr.HTTPStatusCode, Operation: operation, Model: p.config.Model, Message: "request failed", Cause: err}
	}
	return NewProviderError(operation, "failed to create completion", err)
}
