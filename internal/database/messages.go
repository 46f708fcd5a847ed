package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brand-studio-backend/internal/models"
)

func (c *Client) InsertMessage(ctx context.Context, m *models.OnboardingMessage) error {
	var attachments any
	if len(m.Attachments) > 0 {
		attachments = []byte(m.Attachments)
	}
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO onboarding_messages (profile_id, role, content, step, attachments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ProfileID, m.Role, m.Content, m.Step, attachments).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert onboarding message: %w", err)
	}
	return nil
}

// ListMessages returns the most recent limit messages in chronological order.
// A limit of 0 returns the whole conversation.
func (c *Client) ListMessages(ctx context.Context, profileID uuid.UUID, limit int) ([]models.OnboardingMessage, error) {
	query := `
		SELECT id, profile_id, role, content, step, attachments, created_at
		FROM onboarding_messages
		WHERE profile_id = $1
		ORDER BY created_at ASC`
	args := []any{profileID}
	if limit > 0 {
		query = `
		SELECT id, profile_id, role, content, step, attachments, created_at FROM (
			SELECT id, profile_id, role, content, step, attachments, created_at
			FROM onboarding_messages
			WHERE profile_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent ORDER BY created_at ASC`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list onboarding messages: %w", err)
	}
	defer rows.Close()

	var messages []models.OnboardingMessage
	for rows.Next() {
		var m models.OnboardingMessage
		var attachments []byte
		if err := rows.Scan(&m.ID, &m.ProfileID, &m.Role, &m.Content, &m.Step, &attachments, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan onboarding message: %w", err)
		}
		m.Attachments = attachments
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
