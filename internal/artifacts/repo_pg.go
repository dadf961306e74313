package artifacts

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new artifact record.
func (r *PGRepo) Create(ctx context.Context, a Artifact) error {
	const query = `
INSERT INTO artifacts (
    id,
    session_hash,
    file_name,
    storage_key,
    source_kind,
    size_bytes,
    sha256,
    drive_link,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var link sql.NullString
	if a.DriveLink != nil {
		link = sql.NullString{String: *a.DriveLink, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		a.ID,
		a.SessionHash,
		a.FileName,
		a.StorageKey,
		a.SourceKind,
		a.SizeBytes,
		a.SHA256,
		link,
		a.CreatedAt,
	)
	return err
}

// SetDriveLink records the share link of a published artifact.
func (r *PGRepo) SetDriveLink(ctx context.Context, id, link string) error {
	const query = `UPDATE artifacts SET drive_link = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, link)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

