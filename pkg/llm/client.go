// Package llm calls the hosted language model behind the widget.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/embedchat-ai/embedchat/pkg/config"
	"github.com/embedchat-ai/embedchat/pkg/models"
)

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg    config.ModelConfig
	client *http.Client
}

// New creates a Client from the model configuration.
func New(cfg config.ModelConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Complete sends the conversation to the model and returns the assistant
// reply. background, when non-empty, is folded into the system prompt as
// grounding material (typically a Wikipedia extract).
func (c *Client) Complete(ctx context.Context, turns []models.ChatMessage, background string) (string, error) {
	req := models.ChatCompletionRequest{
		Model:    c.cfg.Name,
		Messages: assemble(c.cfg.SystemPrompt, background, turns),
	}
	if c.cfg.MaxTokens > 0 {
		mt := c.cfg.MaxTokens
		req.MaxTokens = &mt
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.URL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned %d: %s", resp.StatusCode, snippet(respBody))
	}

	var completion models.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("parse model response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// Welcome asks the model for a greeting using the configured welcome prompt.
func (c *Client) Welcome(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx, []models.ChatMessage{{Role: "user", Content: prompt}}, "")
}

// assemble builds the upstream message list: one system turn (prompt plus
// optional background block), then the conversation as-is.
func assemble(systemPrompt, background string, turns []models.ChatMessage) []models.ChatMessage {
	system := systemPrompt
	if background != "" {
		system += "\n\nRelevant background for the latest question:\n" + background
	}

	msgs := make([]models.ChatMessage, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, models.ChatMessage{Role: "system", Content: system})
	}
	return append(msgs, turns...)
}

func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
