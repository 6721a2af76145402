package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Submission is one accepted download job recorded locally.
type Submission struct {
	ID             string
	URL            string
	Source         string
	FallbackSource string
	TaskID         string
	SubmittedAt    time.Time
}

// SubmissionLog records accepted download submissions for later review.
type SubmissionLog struct {
	db *sql.DB
}

// NewSubmissionLog creates a SubmissionLog backed by the given database.
func NewSubmissionLog(db *sql.DB) *SubmissionLog {
	return &SubmissionLog{db: db}
}

// Create inserts a submission record.
func (s *SubmissionLog) Create(sub Submission) error {
	_, err := s.db.Exec(
		"INSERT INTO submissions (id, url, source, fallback_source, task_id) VALUES (?, ?, ?, ?, ?)",
		sub.ID, sub.URL, nullable(sub.Source), nullable(sub.FallbackSource), sub.TaskID,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// List returns all submissions, most recent first.
func (s *SubmissionLog) List() ([]Submission, error) {
	rows, err := s.db.Query(
		"SELECT id, url, COALESCE(source, ''), COALESCE(fallback_source, ''), task_id, submitted_at FROM submissions ORDER BY submitted_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.URL, &sub.Source, &sub.FallbackSource, &sub.TaskID, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
