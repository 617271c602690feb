package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

func (c *Client) Chat(ctx context.Context, in models.ChatRequest) (*models.ChatResponse, error) {
	if in.History == nil {
		in.History = []models.ChatHistoryItem{}
	}
	var resp models.ChatResponse
	if err := c.Do(ctx, http.MethodPost, "/chat", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
