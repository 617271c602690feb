package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/google/uuid"
)

// test seams
var (
	newMessageID = uuid.NewString
	now          = time.Now
)

type ChatAPI interface {
	Chat(ctx context.Context, in models.ChatRequest) (*models.ChatResponse, error)
}

// TranscriptStore keeps the chat transcript between runs.
type TranscriptStore interface {
	Save(ctx context.Context, msgs []models.ChatMessage) error
	Load(ctx context.Context) ([]models.ChatMessage, error)
	Clear(ctx context.Context) error
}

// ChatService sends questions to the assistant and keeps the local
// transcript.
type ChatService interface {
	Send(ctx context.Context, text string) (*models.ChatMessage, error)
	Transcript(ctx context.Context) ([]models.ChatMessage, error)
	Clear(ctx context.Context) error
}

type chatService struct {
	api   ChatAPI
	store TranscriptStore

	// sends are serialized so replies land after their own question
	mu sync.Mutex
}

func NewChatService(a ChatAPI, store TranscriptStore) ChatService {
	return &chatService{api: a, store: store}
}

// Send appends the question to the transcript and persists it before the
// request; the answer is appended and persisted once it arrives. History is
// built from the transcript as it was before this question.
func (s *chatService) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	history := models.BuildHistory(msgs)

	msgs = append(msgs, models.ChatMessage{
		ID:        newMessageID(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: now(),
	})
	if err := s.store.Save(ctx, msgs); err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}

	resp, err := s.api.Chat(ctx, models.ChatRequest{Message: text, History: history})
	if err != nil {
		return nil, err
	}

	reply := models.ChatMessage{
		ID:        newMessageID(),
		Role:      models.RoleAssistant,
		Content:   resp.Response,
		Timestamp: now(),
		Sources:   resp.Sources,
	}
	msgs = append(msgs, reply)
	if err := s.store.Save(ctx, msgs); err != nil {
		return &reply, fmt.Errorf("save transcript: %w", err)
	}
	return &reply, nil
}

func (s *chatService) Transcript(ctx context.Context) ([]models.ChatMessage, error) {
	return s.store.Load(ctx)
}

// Clear drops the transcript only; the session is untouched.
func (s *chatService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}
