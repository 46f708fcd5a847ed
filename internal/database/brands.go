package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brand-studio-backend/internal/brand"
	"brand-studio-backend/internal/models"
)

const profileMetaColumns = "id, user_id, status, onboarding_step, brand_name_confirmed, created_at, updated_at"

var profileSelect = func() string {
	cols := brand.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	return "SELECT " + profileMetaColumns + ", " + strings.Join(quoted, ", ") + " FROM brand_profiles"
}()

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.BrandProfile, error) {
	var p models.BrandProfile
	fields := brand.Fields()
	raw := make([]*string, len(fields))

	dest := []any{&p.ID, &p.UserID, &p.Status, &p.OnboardingStep, &p.BrandNameConfirmed, &p.CreatedAt, &p.UpdatedAt}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	p.Fields = make(map[string]any, len(fields))
	for i, f := range fields {
		if raw[i] == nil {
			continue
		}
		p.Fields[f.Name] = brand.Decode(f, raw[i])
	}
	return &p, nil
}

func (c *Client) CreateProfile(ctx context.Context, userID uuid.UUID) (*models.BrandProfile, error) {
	var id uuid.UUID
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO brand_profiles (user_id, status, onboarding_step)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, models.ProfileStatusInProgress, "welcome").Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create brand profile: %w", err)
	}
	return c.GetProfile(ctx, id)
}

func (c *Client) GetProfile(ctx context.Context, profileID uuid.UUID) (*models.BrandProfile, error) {
	p, err := scanProfile(c.db.QueryRowContext(ctx, profileSelect+" WHERE id = $1", profileID))
	if err != nil {
		return nil, notFound(err, "brand profile")
	}
	return p, nil
}

func (c *Client) ListProfiles(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.BrandProfile, error) {
	query := profileSelect + " WHERE user_id = $1"
	if !includeArchived {
		query += " AND status <> 'archived'"
	}
	query += " ORDER BY updated_at DESC"

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.BrandProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (c *Client) SetProfileStatus(ctx context.Context, profileID uuid.UUID, status string) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE brand_profiles SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, profileID)
	return affectedOne(res, err, "brand profile")
}

func (c *Client) SetOnboardingStep(ctx context.Context, profileID uuid.UUID, step, status string) error {
	res, err := c.db.ExecContext(ctx, `
		UPDATE brand_profiles SET onboarding_step = $1, status = $2, updated_at = NOW() WHERE id = $3
	`, step, status, profileID)
	return affectedOne(res, err, "brand profile")
}

// WriteFieldVersion sets one field column and appends its version row in a
// single transaction. The profile row is locked first so concurrent writers
// to the same profile serialize on version numbering.
func (c *Client) WriteFieldVersion(ctx context.Context, profileID uuid.UUID, f brand.Field, value *string, source string, reason *string) (*models.FieldVersion, error) {
	column := pq.QuoteIdentifier(f.Column)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var old *string
	err = tx.QueryRowContext(ctx,
		"SELECT "+column+" FROM brand_profiles WHERE id = $1 FOR UPDATE", profileID,
	).Scan(&old)
	if err != nil {
		return nil, notFound(err, "brand profile")
	}

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM brand_field_versions
		WHERE profile_id = $1 AND field_name = $2
	`, profileID, f.Name).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("failed to compute next version: %w", err)
	}

	set := column + " = $1, updated_at = NOW()"
	if f.Name == brand.NameField {
		set += ", brand_name_confirmed = TRUE"
	}
	if _, err := tx.ExecContext(ctx, "UPDATE brand_profiles SET "+set+" WHERE id = $2", value, profileID); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", f.Name, err)
	}

	v := models.FieldVersion{
		ProfileID:     profileID,
		FieldName:     f.Name,
		OldValue:      old,
		NewValue:      value,
		ChangeSource:  source,
		ChangeReason:  reason,
		VersionNumber: next,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO brand_field_versions (profile_id, field_name, old_value, new_value, change_source, change_reason, version_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, profileID, f.Name, old, value, source, reason, next).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit field update: %w", err)
	}
	return &v, nil
}

const versionColumns = "id, profile_id, field_name, old_value, new_value, change_source, change_reason, version_number, created_at"

func scanVersion(row rowScanner) (*models.FieldVersion, error) {
	var v models.FieldVersion
	err := row.Scan(&v.ID, &v.ProfileID, &v.FieldName, &v.OldValue, &v.NewValue,
		&v.ChangeSource, &v.ChangeReason, &v.VersionNumber, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) GetFieldVersion(ctx context.Context, versionID uuid.UUID) (*models.FieldVersion, error) {
	v, err := scanVersion(c.db.QueryRowContext(ctx,
		"SELECT "+versionColumns+" FROM brand_field_versions WHERE id = $1", versionID))
	if err != nil {
		return nil, notFound(err, "field version")
	}
	return v, nil
}

// ListFieldVersions returns newest first. An empty fieldName lists all fields.
func (c *Client) ListFieldVersions(ctx context.Context, profileID uuid.UUID, fieldName string) ([]models.FieldVersion, error) {
	query := "SELECT " + versionColumns + " FROM brand_field_versions WHERE profile_id = $1"
	args := []any{profileID}
	if fieldName != "" {
		query += " AND field_name = $2"
		args = append(args, fieldName)
	}
	query += " ORDER BY created_at DESC, version_number DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list field versions: %w", err)
	}
	defer rows.Close()

	var versions []models.FieldVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}
