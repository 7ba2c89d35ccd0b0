package agent

import (
	"context"
	"fmt"

	domsvc "CryptoPredict/internal/domain/service"
	"CryptoPredict/pkg/config"
	xhttp "CryptoPredict/pkg/http"
)

// Client invokes the external decision agent over HTTP. The agent receives
// the requested assets plus the serialized market context and replies with
// a loosely-structured mapping; shape validation is the orchestrator's job.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *xhttp.Client
}

// New creates a decision agent client from config.
func New(cfg *config.Config) domsvc.DecisionAgent {
	return &Client{
		baseURL: cfg.Agent.BaseURL,
		apiKey:  cfg.Agent.APIKey,
		model:   cfg.Agent.Model,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Agent.Timeout)),
	}
}

type decideRequest struct {
	Model   string   `json:"model,omitempty"`
	Assets  []string `json:"assets"`
	Context string   `json:"context"`
}

// DecideTrade sends one batch request to the agent and returns the decoded
// response as-is.
func (c *Client) DecideTrade(ctx context.Context, assets []string, marketContext string) (map[string]any, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var out map[string]any
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.baseURL + "/v1/decide",
		Headers: headers,
		Body:    decideRequest{Model: c.model, Assets: assets, Context: marketContext},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("agent decide: %w", err)
	}
	return out, nil
}
