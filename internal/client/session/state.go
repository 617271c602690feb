package session

import (
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	Verifying
	Failed
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Verifying:
		return "verifying"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is a point-in-time copy of the store's state.
type Session struct {
	User            *models.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
	State           State

	// Restored is set when the session came from local storage and the
	// server has not confirmed the token during this process.
	Restored bool
	// ExpiresAt is the token's exp claim when the token is a JWT.
	ExpiresAt time.Time
}

// Users is the user-administration view model.
type Users struct {
	Items     []models.User
	IsLoading bool
	Error     string
}
