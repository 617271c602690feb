package models

import (
	"sort"
	"strings"
)

// SystemPrompt is an assistant persona managed on the backend.
type SystemPrompt struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Prompt      string  `json:"prompt"`
	IsActive    bool    `json:"is_active"`
	IsDefault   bool    `json:"is_default,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   float64 `json:"created_at,omitempty"`
}

func (p SystemPrompt) GetID() string { return p.ID }

// SystemPromptInput is the body for create and update.
type SystemPromptInput struct {
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	IsDefault   bool   `json:"is_default"`
}

// SortPrompts orders prompts active first, then default, then by name.
func SortPrompts(ps []SystemPrompt) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.IsActive != b.IsActive {
			return a.IsActive
		}
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
