package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/conv"
	"github.com/sandevgo/memybot/pkg/log"
)

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string        `json:"message"`
	History []historyTurn `json:"history"`
}

type chatResponse struct {
	Reply     string        `json:"reply"`
	ReplyHTML string        `json:"reply_html"`
	History   []historyTurn `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromCtx(ctx)

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		msg := "request body must be a JSON object"
		if errors.Is(err, errEmptyBody) {
			msg = "request body is empty"
		}
		respondError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	for _, turn := range req.History {
		if turn.Role != core.RoleUser && turn.Role != core.RoleAssistant {
			respondError(w, http.StatusBadRequest, "invalid_history", "history roles must be user or assistant")
			return
		}
	}

	// keep the newest turns only
	if limit := s.cfg.MaxHistory; limit > 0 && len(req.History) > limit {
		req.History = req.History[len(req.History)-limit:]
	}

	history := make([]core.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, core.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.chatter.Chat(ctx, req.Message, history)
	if err != nil {
		logger.Error().Err(err).Msg("chat failed")
		s.metrics.ChatTurn("web", "error")

		if errors.Is(err, core.ErrToolRoundsExceeded) {
			respondError(w, http.StatusBadGateway, "tool_rounds_exceeded", "the assistant could not finish this answer, please rephrase")
			return
		}
		respondError(w, http.StatusBadGateway, "chat_failed", "the assistant is unavailable right now, please try again")
		return
	}
	s.metrics.ChatTurn("web", "ok")

	respondJSON(w, http.StatusOK, chatResponse{
		Reply:     reply,
		ReplyHTML: conv.MarkdownToHTML([]byte(reply)),
		History: append(req.History,
			historyTurn{Role: core.RoleUser, Content: req.Message},
			historyTurn{Role: core.RoleAssistant, Content: reply},
		),
	})
}
