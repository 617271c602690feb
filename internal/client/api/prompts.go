package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

func (c *Client) ListPrompts(ctx context.Context) ([]models.SystemPrompt, error) {
	var ps []models.SystemPrompt
	if err := c.Do(ctx, http.MethodGet, "/system-prompts/", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) CreatePrompt(ctx context.Context, in models.SystemPromptInput) error {
	return c.Do(ctx, http.MethodPost, "/system-prompts/", in, nil)
}

func (c *Client) UpdatePrompt(ctx context.Context, id string, in models.SystemPromptInput) error {
	return c.Do(ctx, http.MethodPut, "/system-prompts/"+escape(id), in, nil)
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/system-prompts/"+escape(id), nil, nil)
}

func (c *Client) ActivatePrompt(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodPost, "/system-prompts/"+escape(id)+"/activate", nil, nil)
}

func (c *Client) ResetPrompts(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/system-prompts/reset-to-default", nil, nil)
}
