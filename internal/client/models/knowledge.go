package models

import (
	"fmt"
	"strings"
)

// Knowledge is a single record of the knowledge base.
type Knowledge struct {
	ID       string         `json:"_id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Source   string         `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GetID lets Knowledge be addressed by list controllers.
func (k Knowledge) GetID() string { return k.ID }

type CreateKnowledgeRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Source   string         `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateKnowledgeRequest struct {
	Title    *string        `json:"title,omitempty"`
	Content  *string        `json:"content,omitempty"`
	Source   *string        `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (u UpdateKnowledgeRequest) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Source == nil && u.Metadata == nil
}

type AddKnowledgeResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SortOrder is the server-side ordering of knowledge listings.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

func (s SortOrder) Valid() bool {
	return s == SortNewest || s == SortOldest
}

func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("unknown sort order %q (want newest or oldest)", s)
	}
	return o, nil
}

// ParseMetadata turns "k1:v1,k2:v2" into a map. Pairs without a key or a
// value are skipped; only the first colon separates key from value.
// Returns nil when nothing usable is found.
func ParseMetadata(s string) map[string]any {
	var out map[string]any
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}
