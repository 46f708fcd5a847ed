package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"brand-studio-backend/internal/models"
)

// GenerationUpdate is a partial update of an ai_generations row. Only the
// columns that were set take part in the statement.
type GenerationUpdate struct {
	status        *string
	providerJobID *string
	resultURL     *string
	r2Key         *string
	cost          *float64
	progress      *int
	errorMessage  *string
}

func NewGenerationUpdate() *GenerationUpdate { return &GenerationUpdate{} }

func (u *GenerationUpdate) Status(s string) *GenerationUpdate { u.status = &s; return u }

func (u *GenerationUpdate) ProviderJobID(id string) *GenerationUpdate { u.providerJobID = &id; return u }

func (u *GenerationUpdate) ResultURL(url string) *GenerationUpdate { u.resultURL = &url; return u }

func (u *GenerationUpdate) R2Key(key string) *GenerationUpdate { u.r2Key = &key; return u }

func (u *GenerationUpdate) Cost(cost float64) *GenerationUpdate { u.cost = &cost; return u }

func (u *GenerationUpdate) Progress(p int) *GenerationUpdate {
	p = max(0, min(100, p))
	u.progress = &p
	return u
}

func (u *GenerationUpdate) ErrorMessage(msg string) *GenerationUpdate { u.errorMessage = &msg; return u }

func (u *GenerationUpdate) Empty() bool {
	return u.status == nil && u.providerJobID == nil && u.resultURL == nil && u.r2Key == nil &&
		u.cost == nil && u.progress == nil && u.errorMessage == nil
}

func (u *GenerationUpdate) terminal() bool {
	return u.status != nil && models.IsTerminalGeneration(*u.status)
}

// Build renders the UPDATE statement. Terminal statuses stamp completed_at
// once; any other update leaves rows that are already terminal untouched.
func (u *GenerationUpdate) Build(id uuid.UUID) (string, []any) {
	if u.Empty() {
		return "", nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.status != nil {
		add("status", *u.status)
	}
	if u.providerJobID != nil {
		add("provider_job_id", *u.providerJobID)
	}
	if u.resultURL != nil {
		add("result_url", *u.resultURL)
	}
	if u.r2Key != nil {
		add("r2_key", *u.r2Key)
	}
	if u.cost != nil {
		add("cost", *u.cost)
	}
	if u.progress != nil {
		add("progress", *u.progress)
	}
	if u.errorMessage != nil {
		add("error_message", *u.errorMessage)
	}
	if u.terminal() {
		sets = append(sets, "completed_at = COALESCE(completed_at, NOW())")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE ai_generations SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if guarded := u.guarded(); len(guarded) > 0 {
		quoted := make([]string, len(guarded))
		for i, s := range guarded {
			quoted[i] = "'" + s + "'"
		}
		query += " AND status NOT IN (" + strings.Join(quoted, ", ") + ")"
	}
	return query, args
}

// guarded lists the row statuses a non-terminal update must not touch: the
// terminal ones, plus any status ranked above the one being written, so a
// generation never moves backward.
func (u *GenerationUpdate) guarded() []string {
	if u.terminal() {
		return nil
	}
	if u.status == nil {
		return models.StatusesAfter(models.GenerationProcessing)
	}
	return models.StatusesAfter(*u.status)
}

// Apply mirrors Build on an in-memory row and reports whether it changed.
func (u *GenerationUpdate) Apply(g *models.AIGeneration, now time.Time) bool {
	if u.Empty() || slices.Contains(u.guarded(), g.Status) {
		return false
	}
	if u.status != nil {
		g.Status = *u.status
	}
	if u.providerJobID != nil {
		g.ProviderJobID = ptr(*u.providerJobID)
	}
	if u.resultURL != nil {
		g.ResultURL = ptr(*u.resultURL)
	}
	if u.r2Key != nil {
		g.R2Key = ptr(*u.r2Key)
	}
	if u.cost != nil {
		g.Cost = ptr(*u.cost)
	}
	if u.progress != nil {
		g.Progress = ptr(*u.progress)
	}
	if u.errorMessage != nil {
		g.ErrorMessage = ptr(*u.errorMessage)
	}
	if u.terminal() && g.CompletedAt == nil {
		g.CompletedAt = &now
	}
	return true
}

func ptr[T any](v T) *T { return &v }

const generationColumns = `id, brand_profile_id, generation_type, provider, model, prompt, status,
	provider_job_id, result_url, r2_key, cost, progress, error_message, parameters, created_at, completed_at`

func scanGeneration(row rowScanner) (*models.AIGeneration, error) {
	var g models.AIGeneration
	var params []byte
	err := row.Scan(&g.ID, &g.BrandProfileID, &g.GenerationType, &g.Provider, &g.Model, &g.Prompt,
		&g.Status, &g.ProviderJobID, &g.ResultURL, &g.R2Key, &g.Cost, &g.Progress,
		&g.ErrorMessage, &params, &g.CreatedAt, &g.CompletedAt)
	if err != nil {
		return nil, err
	}
	g.Parameters = params
	return &g, nil
}

func (c *Client) InsertGeneration(ctx context.Context, g *models.AIGeneration) error {
	var params any
	if len(g.Parameters) > 0 {
		params = []byte(g.Parameters)
	}
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO ai_generations (brand_profile_id, generation_type, provider, model, prompt, status, cost, progress, parameters)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, g.BrandProfileID, g.GenerationType, g.Provider, g.Model, g.Prompt, g.Status, g.Cost, g.Progress, params,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}
	return nil
}

func (c *Client) GetGeneration(ctx context.Context, id uuid.UUID) (*models.AIGeneration, error) {
	g, err := scanGeneration(c.db.QueryRowContext(ctx,
		"SELECT "+generationColumns+" FROM ai_generations WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "generation")
	}
	return g, nil
}

// ListGenerations returns newest first. An empty genType lists every type.
func (c *Client) ListGenerations(ctx context.Context, profileID uuid.UUID, genType string) ([]models.AIGeneration, error) {
	query := "SELECT " + generationColumns + " FROM ai_generations WHERE brand_profile_id = $1"
	args := []any{profileID}
	if genType != "" {
		query += " AND generation_type = $2"
		args = append(args, genType)
	}
	query += " ORDER BY created_at DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var generations []models.AIGeneration
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, *g)
	}
	return generations, rows.Err()
}

// UpdateGeneration applies a partial update. It reports false when the row
// was already terminal and the update was skipped.
func (c *Client) UpdateGeneration(ctx context.Context, id uuid.UUID, u *GenerationUpdate) (bool, error) {
	query, args := u.Build(id)
	if query == "" {
		return false, nil
	}
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
