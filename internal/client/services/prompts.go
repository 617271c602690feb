package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

type PromptsAPI interface {
	ListPrompts(ctx context.Context) ([]models.SystemPrompt, error)
	CreatePrompt(ctx context.Context, in models.SystemPromptInput) error
	UpdatePrompt(ctx context.Context, id string, in models.SystemPromptInput) error
	DeletePrompt(ctx context.Context, id string) error
	ActivatePrompt(ctx context.Context, id string) error
	ResetPrompts(ctx context.Context) error
}

// PromptService manages the assistant's system prompts.
type PromptService interface {
	List(ctx context.Context) ([]models.SystemPrompt, error)
	Create(ctx context.Context, in models.SystemPromptInput) error
	Update(ctx context.Context, id string, in models.SystemPromptInput) error
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

type promptService struct {
	api PromptsAPI
}

func NewPromptService(a PromptsAPI) PromptService {
	return &promptService{api: a}
}

// List returns prompts active first, then the default, then by name.
func (s *promptService) List(ctx context.Context) ([]models.SystemPrompt, error) {
	ps, err := s.api.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	models.SortPrompts(ps)
	return ps, nil
}

func validatePrompt(in models.SystemPromptInput) (models.SystemPromptInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Prompt = strings.TrimSpace(in.Prompt)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Prompt == "" {
		return in, fmt.Errorf("%w: name and prompt are required", common.ErrValidation)
	}
	return in, nil
}

func (s *promptService) Create(ctx context.Context, in models.SystemPromptInput) error {
	in, err := validatePrompt(in)
	if err != nil {
		return err
	}
	return s.api.CreatePrompt(ctx, in)
}

func (s *promptService) Update(ctx context.Context, id string, in models.SystemPromptInput) error {
	in, err := validatePrompt(in)
	if err != nil {
		return err
	}
	return s.api.UpdatePrompt(ctx, id, in)
}

// Delete refuses the default prompt. The prompt is looked up first since
// the id alone does not say whether it is the default.
func (s *promptService) Delete(ctx context.Context, id string) error {
	ps, err := s.api.ListPrompts(ctx)
	if err != nil {
		return err
	}
	for _, p := range ps {
		if p.ID != id {
			continue
		}
		if p.IsDefault {
			return fmt.Errorf("%w: %s", ErrDefaultPrompt, p.Name)
		}
		return s.api.DeletePrompt(ctx, id)
	}
	return fmt.Errorf("prompt %s: %w", id, common.ErrNotFound)
}

func (s *promptService) Activate(ctx context.Context, id string) error {
	return s.api.ActivatePrompt(ctx, id)
}

func (s *promptService) Reset(ctx context.Context) error {
	return s.api.ResetPrompts(ctx)
}
