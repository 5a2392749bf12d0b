package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/database"
)

// SubmissionRepository is an attendance sink that appends every submitted
// record to the attendance_submissions table.
type SubmissionRepository struct {
	db *database.DB
}

func NewSubmissionRepository(db *database.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Deliver implements attendance.Sink.
func (r *SubmissionRepository) Deliver(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_submissions (name, type)
		VALUES ($1, $2)
	`

	if _, err := q.Exec(ctx, query, record.Name, string(record.Type)); err != nil {
		return fmt.Errorf("failed to insert attendance submission: %w", err)
	}

	return nil
}

// Submission is a stored attendance record.
type Submission struct {
	ID          int64
	Name        string
	Type        attendance.ActionType
	SubmittedAt time.Time
}

// ListRecent returns the latest submissions, newest first.
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]Submission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, type, submitted_at
		FROM attendance_submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		var actionType string
		if err := rows.Scan(&s.ID, &s.Name, &actionType, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance submission: %w", err)
		}
		s.Type = attendance.ActionType(actionType)
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance submissions: %w", err)
	}

	return submissions, nil
}
