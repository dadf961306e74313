package artifacts

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	a := Artifact{
		ID:          "5d0e7a4c-1b1e-4a8e-9a55-4a4bb4f0d1e1",
		SessionHash: "abc",
		FileName:    "idea_analysis.txt",
		StorageKey:  "abc/idea_analysis.txt",
		SourceKind:  SourceText,
		SizeBytes:   42,
		SHA256:      "deadbeef",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO artifacts").
		WithArgs(a.ID, a.SessionHash, a.FileName, a.StorageKey, a.SourceKind, a.SizeBytes, a.SHA256, nil, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDriveLinkNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE artifacts SET drive_link").
		WithArgs("missing", "link").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.SetDriveLink(context.Background(), "missing", "link"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
