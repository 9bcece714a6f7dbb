package core

import (
	"context"
	"time"
)

type MessagesRepository interface {
	AddMessages(ctx context.Context, sessionID string, msgs ...Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type RecordsRepository interface {
	SaveLead(ctx context.Context, lead Lead) error
	SaveUnknownQuestion(ctx context.Context, q UnknownQuestion) error
	ListLeads(ctx context.Context, limit int) ([]Lead, error)
	ListUnknownQuestions(ctx context.Context, limit int) ([]UnknownQuestion, error)
}

type Lead struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type UnknownQuestion struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
}
