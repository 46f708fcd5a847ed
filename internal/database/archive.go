package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brand-studio-backend/internal/models"
)

type ArchiveFilter struct {
	BrandProfileID *uuid.UUID
	Folder         string
	FileType       string
	Tag            string
	Starred        *bool
}

// ArchivePatch lists the user-editable archive columns. Nil means untouched.
type ArchivePatch struct {
	Folder    *string
	Tags      []string
	IsStarred *bool
}

const archiveColumns = `id, user_id, brand_profile_id, file_name, file_type, mime_type, size_bytes, source, context,
	folder, tags, is_starred, r2_key, public_url, generation_id, created_at, updated_at`

func scanArchiveEntry(row rowScanner) (*models.FileArchiveEntry, error) {
	var e models.FileArchiveEntry
	err := row.Scan(&e.ID, &e.UserID, &e.BrandProfileID, &e.FileName, &e.FileType, &e.MimeType,
		&e.SizeBytes, &e.Source, &e.Context, &e.Folder, pq.Array(&e.Tags), &e.IsStarred,
		&e.R2Key, &e.PublicURL, &e.GenerationID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func (c *Client) InsertArchiveEntry(ctx context.Context, e *models.FileArchiveEntry) error {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO file_archive (user_id, brand_profile_id, file_name, file_type, mime_type, size_bytes,
			source, context, folder, tags, is_starred, r2_key, public_url, generation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, e.UserID, e.BrandProfileID, e.FileName, e.FileType, e.MimeType, e.SizeBytes,
		e.Source, e.Context, e.Folder, pq.Array(tags), e.IsStarred, e.R2Key, e.PublicURL, e.GenerationID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert archive entry: %w", err)
	}
	e.Tags = tags
	return nil
}

func (c *Client) GetArchiveEntry(ctx context.Context, id uuid.UUID) (*models.FileArchiveEntry, error) {
	e, err := scanArchiveEntry(c.db.QueryRowContext(ctx,
		"SELECT "+archiveColumns+" FROM file_archive WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err, "archive entry")
	}
	return e, nil
}

func (c *Client) ListArchive(ctx context.Context, userID uuid.UUID, f ArchiveFilter) ([]models.FileArchiveEntry, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.BrandProfileID != nil {
		add("brand_profile_id = $%d", *f.BrandProfileID)
	}
	if f.Folder != "" {
		add("folder = $%d", f.Folder)
	}
	if f.FileType != "" {
		add("file_type = $%d", f.FileType)
	}
	if f.Tag != "" {
		add("$%d = ANY(tags)", f.Tag)
	}
	if f.Starred != nil {
		add("is_starred = $%d", *f.Starred)
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT "+archiveColumns+" FROM file_archive WHERE "+strings.Join(where, " AND ")+" ORDER BY created_at DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	defer rows.Close()

	var entries []models.FileArchiveEntry
	for rows.Next() {
		e, err := scanArchiveEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (c *Client) UpdateArchiveEntry(ctx context.Context, id uuid.UUID, p ArchivePatch) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Folder != nil {
		add("folder", *p.Folder)
	}
	if p.Tags != nil {
		add("tags", pq.Array(p.Tags))
	}
	if p.IsStarred != nil {
		add("is_starred", *p.IsStarred)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	res, err := c.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE file_archive SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...)
	return affectedOne(res, err, "archive entry")
}

func (c *Client) DeleteArchiveEntry(ctx context.Context, id uuid.UUID) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM file_archive WHERE id = $1", id)
	return affectedOne(res, err, "archive entry")
}

func (c *Client) ListFolders(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT DISTINCT folder FROM file_archive WHERE user_id = $1 ORDER BY folder", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []string{}
	for rows.Next() {
		var folder string
		if err := rows.Scan(&folder); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}
