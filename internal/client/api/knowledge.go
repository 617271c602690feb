package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

// KnowledgeQuery selects one page of the knowledge listing.
type KnowledgeQuery struct {
	Page      int
	Limit     int
	SortOrder models.SortOrder
}

func (q KnowledgeQuery) encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortOrder != "" {
		v.Set("sort_order", string(q.SortOrder))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListKnowledge(ctx context.Context, q KnowledgeQuery) (models.Page[models.Knowledge], error) {
	var page models.Page[models.Knowledge]
	if err := c.Do(ctx, http.MethodGet, "/knowledge"+q.encode(), nil, &page); err != nil {
		return models.Page[models.Knowledge]{}, err
	}
	page.Normalize()
	return page, nil
}

func (c *Client) AddKnowledge(ctx context.Context, in models.CreateKnowledgeRequest) (*models.AddKnowledgeResponse, error) {
	var resp models.AddKnowledgeResponse
	if err := c.Do(ctx, http.MethodPost, "/add-knowledge", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateKnowledge(ctx context.Context, id string, in models.UpdateKnowledgeRequest) error {
	return c.Do(ctx, http.MethodPut, "/knowledge/"+escape(id), in, nil)
}

func (c *Client) DeleteKnowledge(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/knowledge/"+escape(id), nil, nil)
}

// DeleteAllKnowledge removes every record on the server.
func (c *Client) DeleteAllKnowledge(ctx context.Context) error {
	return c.Do(ctx, http.MethodDelete, "/knowledge", nil, nil)
}
