package artifacts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"idea-analyzer/internal/shared/storage/object"
	"idea-analyzer/internal/shared/telemetry"
	"idea-analyzer/internal/shared/util"
)

const contentType = "text/plain; charset=utf-8"

// Service persists analysis text and keeps the catalog in step.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Save writes content under <sessionHash>/<fileName>, replacing an earlier artifact of the
// same name. Storage errors are returned; catalog errors are only logged.
func (s *Service) Save(ctx context.Context, sessionHash, fileName, sourceKind, content string) (Artifact, error) {
	if strings.TrimSpace(sessionHash) == "" || strings.TrimSpace(fileName) == "" {
		return Artifact{}, object.ErrInvalidKey
	}
	key, err := object.CleanKey(Key(sessionHash, fileName))
	if err != nil {
		return Artifact{}, err
	}

	size, err := s.Store.Put(ctx, key, contentType, strings.NewReader(content))
	if err != nil {
		return Artifact{}, fmt.Errorf("store artifact: %w", err)
	}

	a := Artifact{
		ID:          uuid.NewString(),
		SessionHash: sessionHash,
		FileName:    fileName,
		StorageKey:  key,
		Location:    s.Store.Location(key),
		SourceKind:  sourceKind,
		SizeBytes:   size,
		SHA256:      util.ContentSHA256([]byte(content)),
		CreatedAt:   s.now(),
	}

	if s.Repo != nil {
		if err := s.Repo.Create(ctx, a); err != nil {
			telemetry.Error("artifact.catalog_failed", map[string]any{
				"storage_key": key,
				"err":         err.Error(),
			})
		}
	}

	telemetry.Info("artifact.saved", map[string]any{
		"storage_key": key,
		"size":        size,
		"source_kind": sourceKind,
	})
	return a, nil
}

// Open returns a reader for a stored artifact.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.Store.Open(ctx, key)
}

// RecordDriveLink stores the share link for a saved artifact; failures are logged.
func (s *Service) RecordDriveLink(ctx context.Context, a *Artifact, link string) {
	a.DriveLink = &link
	if s.Repo == nil {
		return
	}
	if err := s.Repo.SetDriveLink(ctx, a.ID, link); err != nil {
		telemetry.Warn("artifact.catalog_link_failed", map[string]any{
			"artifact_id": a.ID,
			"err":         err.Error(),
		})
	}
}

