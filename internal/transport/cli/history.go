package cli

import (
	"context"
	"sync"

	"github.com/sandevgo/memybot/internal/core"
)

// MemoryHistory keeps the terminal conversation for the life of the process.
type MemoryHistory struct {
	mu   sync.Mutex
	msgs []core.Message
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Messages() []core.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.Message(nil), h.msgs...)
}

func (h *MemoryHistory) Append(msgs ...core.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msgs...)
}

// ClearSession forgets everything; there is only one terminal session.
func (h *MemoryHistory) ClearSession(_ context.Context, _ string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = nil
	return nil
}
