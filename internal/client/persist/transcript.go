package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

const (
	keyTranscript     = "chat.transcript"
	transcriptVersion = 1
)

type transcriptEnvelope struct {
	Version  int             `json:"version"`
	Messages []storedMessage `json:"messages"`
}

// storedMessage mirrors models.ChatMessage but accepts the timestamp as an
// RFC 3339 string or as Unix milliseconds.
type storedMessage struct {
	ID        string              `json:"id"`
	Role      models.Role         `json:"type"`
	Content   string              `json:"content"`
	Timestamp flexTime            `json:"timestamp"`
	Sources   []models.ChatSource `json:"sources,omitempty"`
}

type flexTime struct{ time.Time }

func (t flexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// TranscriptStore persists the chat transcript. Clearing it never touches
// the session credentials.
type TranscriptStore struct {
	a *Adapter
}

func NewTranscriptStore(a *Adapter) *TranscriptStore {
	return &TranscriptStore{a: a}
}

func (s *TranscriptStore) Save(ctx context.Context, msgs []models.ChatMessage) error {
	env := transcriptEnvelope{Version: transcriptVersion, Messages: make([]storedMessage, len(msgs))}
	for i, m := range msgs {
		env.Messages[i] = storedMessage{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: flexTime{m.Timestamp},
			Sources:   m.Sources,
		}
	}
	return s.a.Save(ctx, keyTranscript, env)
}

// Load restores the transcript. Both the versioned envelope and a bare
// legacy array are accepted; anything else yields an empty transcript.
func (s *TranscriptStore) Load(ctx context.Context) ([]models.ChatMessage, error) {
	var raw json.RawMessage
	found, err := s.a.Load(ctx, keyTranscript, &raw)
	if err != nil || !found {
		return nil, err
	}

	var stored []storedMessage
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &stored); err != nil {
			s.a.log.Warn(ctx, "ignoring malformed transcript", "error", err)
			return nil, nil
		}
	default:
		var env transcriptEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil || env.Version > transcriptVersion {
			s.a.log.Warn(ctx, "ignoring unreadable transcript", "version", env.Version, "error", err)
			return nil, nil
		}
		stored = env.Messages
	}

	msgs := make([]models.ChatMessage, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, models.ChatMessage{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp.Time,
			Sources:   m.Sources,
		})
	}
	return msgs, nil
}

func (s *TranscriptStore) Clear(ctx context.Context) error {
	return s.a.Clear(ctx, keyTranscript)
}
