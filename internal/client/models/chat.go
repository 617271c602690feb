package models

import "time"

// Role tells who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the locally kept transcript.
type ChatMessage struct {
	ID        string       `json:"id"`
	Role      Role         `json:"type"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Sources   []ChatSource `json:"sources,omitempty"`
}

type FileInfo struct {
	FileID        string `json:"file_id"`
	Filename      string `json:"filename"`
	FileType      string `json:"file_type"`
	CloudinaryURL string `json:"cloudinary_url"`
	UploadDate    string `json:"upload_date,omitempty"`
}

// ChatSource is a knowledge record the assistant grounded its answer on.
type ChatSource struct {
	ID              string    `json:"_id,omitempty"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Source          string    `json:"source"`
	SimilarityScore *float64  `json:"similarity_score,omitempty"`
	FileInfo        *FileInfo `json:"file_info,omitempty"`
}

type ChatHistoryItem struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

type ChatRequest struct {
	Message string            `json:"message"`
	History []ChatHistoryItem `json:"history"`
}

type ChatResponse struct {
	Response string       `json:"response"`
	Sources  []ChatSource `json:"sources"`
}

// BuildHistory walks the transcript two messages at a time and keeps only
// the user/assistant pairs. A misaligned or unanswered message breaks
// nothing, it just isn't sent.
func BuildHistory(msgs []ChatMessage) []ChatHistoryItem {
	history := make([]ChatHistoryItem, 0, len(msgs)/2)
	for i := 0; i+1 < len(msgs); i += 2 {
		q, a := msgs[i], msgs[i+1]
		if q.Role == RoleUser && a.Role == RoleAssistant {
			history = append(history, ChatHistoryItem{User: q.Content, Assistant: a.Content})
		}
	}
	return history
}
