package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// FileService is the slice of the Drive API the publisher needs.
type FileService interface {
	Create(ctx context.Context, name string, parents []string, contentType string, body io.Reader) (string, error)
	ShareWithAnyone(ctx context.Context, fileID string) error
}

// ServiceFactory builds a FileService acting with the given authorized client.
type ServiceFactory func(ctx context.Context, client *http.Client) (FileService, error)

type apiFiles struct {
	svc *drivev3.Service
}

// NewAPIService is the ServiceFactory backed by google.golang.org/api/drive/v3.
func NewAPIService(ctx context.Context, client *http.Client) (FileService, error) {
	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &apiFiles{svc: svc}, nil
}

func (a *apiFiles) Create(ctx context.Context, name string, parents []string, contentType string, body io.Reader) (string, error) {
	meta := &drivev3.File{Name: name, MimeType: "text/plain"}
	if len(parents) > 0 {
		meta.Parents = parents
	}
	f, err := a.svc.Files.Create(meta).
		Media(body, googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive create: %w", err)
	}
	return f.Id, nil
}

func (a *apiFiles) ShareWithAnyone(ctx context.Context, fileID string) error {
	_, err := a.svc.Permissions.Create(fileID, &drivev3.Permission{Type: "anyone", Role: "reader"}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive share: %w", err)
	}
	return nil
}
