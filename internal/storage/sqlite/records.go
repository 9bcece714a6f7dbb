package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/memybot/internal/core"
)

// RecordsRepo keeps every lead and unanswered question, so nothing is lost
// when a push notification fails.
type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) SaveLead(ctx context.Context, lead core.Lead) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leads (session_id, email, name, notes) VALUES (?, ?, ?, ?)`,
		nullString(lead.SessionID), lead.Email, lead.Name, lead.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (r *RecordsRepo) SaveUnknownQuestion(ctx context.Context, q core.UnknownQuestion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO unknown_questions (session_id, question) VALUES (?, ?)`,
		nullString(q.SessionID), q.Question,
	)
	if err != nil {
		return fmt.Errorf("failed to insert unknown question: %w", err)
	}
	return nil
}

func (r *RecordsRepo) ListLeads(ctx context.Context, limit int) ([]core.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, email, name, notes, created_at FROM leads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []core.Lead
	for rows.Next() {
		var (
			lead      core.Lead
			sessionID sql.NullString
		)
		if err := rows.Scan(&lead.ID, &sessionID, &lead.Email, &lead.Name, &lead.Notes, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		lead.SessionID = sessionID.String
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *RecordsRepo) ListUnknownQuestions(ctx context.Context, limit int) ([]core.UnknownQuestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, question, created_at FROM unknown_questions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unknown questions: %w", err)
	}
	defer rows.Close()

	var questions []core.UnknownQuestion
	for rows.Next() {
		var (
			q         core.UnknownQuestion
			sessionID sql.NullString
		)
		if err := rows.Scan(&q.ID, &sessionID, &q.Question, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unknown question: %w", err)
		}
		q.SessionID = sessionID.String
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
