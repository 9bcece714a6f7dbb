package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/pkg/log"
)

const (
	RecordUserDetailsName     = "record_user_details"
	RecordUnknownQuestionName = "record_unknown_question"

	defaultName  = "Name not provided"
	defaultNotes = "not provided"
)

var recordUserDetailsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"email": {"type": "string", "description": "The email address of this user"},
		"name": {"type": "string", "description": "The user's name, if they provided it"},
		"notes": {"type": "string", "description": "Any additional information about the conversation that's worth recording to give context"}
	},
	"required": ["email"],
	"additionalProperties": false
}`)

var recordUnknownQuestionSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"question": {"type": "string", "description": "The question that couldn't be answered"}
	},
	"required": ["question"],
	"additionalProperties": false
}`)

type UserDetails struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type UnknownQuestion struct {
	Question string `json:"question"`
}

// Recorded is what both recording tools return to the model.
type Recorded struct {
	Recorded string `json:"recorded"`
}

var recordedOK = Recorded{Recorded: "ok"}

// Recorder backs the two recording tools. A failed notification or store
// write never reaches the model: the tool still answers ok.
type Recorder struct {
	notifier core.Notifier
	records  core.RecordsRepository
	metrics  *observability.Metrics
}

// NewRecorder builds a Recorder. records and metrics may be nil.
func NewRecorder(notifier core.Notifier, records core.RecordsRepository, metrics *observability.Metrics) *Recorder {
	return &Recorder{
		notifier: notifier,
		records:  records,
		metrics:  metrics,
	}
}

// Register adds record_user_details and record_unknown_question to reg.
func (r *Recorder) Register(reg *Registry) error {
	err := reg.Register(
		RecordUserDetailsName,
		"Use this tool to record that a user is interested in being in touch and provided an email address",
		recordUserDetailsSchema,
		func(ctx context.Context, args json.RawMessage) (any, error) {
			var in UserDetails
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			if strings.TrimSpace(in.Email) == "" {
				return nil, fmt.Errorf("%w: email is required", core.ErrInvalidArguments)
			}
			return r.RecordUserDetails(ctx, in), nil
		},
	)
	if err != nil {
		return err
	}

	return reg.Register(
		RecordUnknownQuestionName,
		"Always use this tool to record any question that couldn't be answered as you didn't know the answer",
		recordUnknownQuestionSchema,
		func(ctx context.Context, args json.RawMessage) (any, error) {
			var in UnknownQuestion
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			if strings.TrimSpace(in.Question) == "" {
				return nil, fmt.Errorf("%w: question is required", core.ErrInvalidArguments)
			}
			return r.RecordUnknownQuestion(ctx, in.Question), nil
		},
	)
}

func (r *Recorder) RecordUserDetails(ctx context.Context, in UserDetails) Recorded {
	if in.Name == "" {
		in.Name = defaultName
	}
	if in.Notes == "" {
		in.Notes = defaultNotes
	}

	r.push(ctx, fmt.Sprintf("Recording %s with email %s and notes %s", in.Name, in.Email, in.Notes))

	if r.records != nil {
		lead := core.Lead{
			SessionID: core.SessionIDFromCtx(ctx),
			Email:     in.Email,
			Name:      in.Name,
			Notes:     in.Notes,
		}
		if err := r.records.SaveLead(ctx, lead); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to store lead")
		}
	}

	return recordedOK
}

func (r *Recorder) RecordUnknownQuestion(ctx context.Context, question string) Recorded {
	r.push(ctx, fmt.Sprintf("Recording %s", question))

	if r.records != nil {
		q := core.UnknownQuestion{
			SessionID: core.SessionIDFromCtx(ctx),
			Question:  question,
		}
		if err := r.records.SaveUnknownQuestion(ctx, q); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to store unknown question")
		}
	}

	return recordedOK
}

func (r *Recorder) push(ctx context.Context, text string) {
	logger := log.FromCtx(ctx)

	if err := r.notifier.Notify(ctx, text); err != nil {
		if !errors.Is(err, core.ErrNotifyFailed) {
			err = fmt.Errorf("%w: %w", core.ErrNotifyFailed, err)
		}
		logger.Error().Err(err).Msg("push notification failed")
		r.metrics.Notification(observability.OutcomeError)
		return
	}

	logger.Debug().Str("message", text).Msg("push notification sent")
	r.metrics.Notification(observability.OutcomeOK)
}
