package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brand-studio-backend/internal/models"
)

const userColumns = "id, email, name, avatar_url, provider, provider_user_id, role, created_at, updated_at"

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Provider, &u.ProviderUserID,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertOAuthUser creates or refreshes the account for an OAuth identity.
// The first account ever created is made an admin.
func (c *Client) UpsertOAuthUser(ctx context.Context, u *models.User) (*models.User, error) {
	saved, err := scanUser(c.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_user_id, role)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'user' ELSE 'admin' END)
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING `+userColumns,
		u.Email, u.Name, u.AvatarURL, u.Provider, u.ProviderUserID))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return saved, nil
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(c.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (c *Client) SetUserRole(ctx context.Context, id uuid.UUID, role string) error {
	res, err := c.db.ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2", role, id)
	return affectedOne(res, err, "user")
}
