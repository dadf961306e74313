package artifacts

import "context"

// Repo catalogs saved artifacts.
type Repo interface {
	Create(ctx context.Context, a Artifact) error
	SetDriveLink(ctx context.Context, id, link string) error
}
