// Package services contains the application services of the client. Each
// service validates its input before any request is made and talks to the
// backend through a narrow interface satisfied by *api.Client.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/api"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/listsync"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

type KnowledgeAPI interface {
	ListKnowledge(ctx context.Context, q api.KnowledgeQuery) (models.Page[models.Knowledge], error)
	AddKnowledge(ctx context.Context, in models.CreateKnowledgeRequest) (*models.AddKnowledgeResponse, error)
	UpdateKnowledge(ctx context.Context, id string, in models.UpdateKnowledgeRequest) error
	DeleteKnowledge(ctx context.Context, id string) error
	DeleteAllKnowledge(ctx context.Context) error
}

// KnowledgeInput is a record as typed by the user. Metadata uses the
// "k1:v1,k2:v2" form.
type KnowledgeInput struct {
	Title    string
	Content  string
	Source   string
	Metadata string
}

// KnowledgeService manages knowledge records and is the backing source of
// the knowledge list controller.
type KnowledgeService interface {
	listsync.Source[models.Knowledge]
	Add(ctx context.Context, in KnowledgeInput) (*models.AddKnowledgeResponse, error)
	Update(ctx context.Context, id string, in models.UpdateKnowledgeRequest) error
}

type knowledgeService struct {
	api KnowledgeAPI
}

func NewKnowledgeService(a KnowledgeAPI) KnowledgeService {
	return &knowledgeService{api: a}
}

func (s *knowledgeService) List(ctx context.Context, q listsync.Query) (models.Page[models.Knowledge], error) {
	return s.api.ListKnowledge(ctx, api.KnowledgeQuery{Page: q.Page, Limit: q.Limit, SortOrder: q.SortOrder})
}

// Add creates a record. Title and content are required; a blank source is
// left out of the request.
func (s *knowledgeService) Add(ctx context.Context, in KnowledgeInput) (*models.AddKnowledgeResponse, error) {
	req := models.CreateKnowledgeRequest{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Source:   strings.TrimSpace(in.Source),
		Metadata: models.ParseMetadata(in.Metadata),
	}
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrValidation)
	}

	resp, err := s.api.AddKnowledge(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.ID == "" || resp.Message == "" {
		return nil, fmt.Errorf("%w: add-knowledge response without id or message", api.ErrDecode)
	}
	return resp, nil
}

// Update sends only the fields that are set.
func (s *knowledgeService) Update(ctx context.Context, id string, in models.UpdateKnowledgeRequest) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	if in.Empty() {
		return fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return fmt.Errorf("%w: title cannot be blank", common.ErrValidation)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return fmt.Errorf("%w: content cannot be blank", common.ErrValidation)
	}
	return s.api.UpdateKnowledge(ctx, id, in)
}

func (s *knowledgeService) Delete(ctx context.Context, id string) error {
	return s.api.DeleteKnowledge(ctx, id)
}

func (s *knowledgeService) DeleteAll(ctx context.Context) error {
	return s.api.DeleteAllKnowledge(ctx)
}
