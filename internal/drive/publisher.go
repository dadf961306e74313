package drive

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/telemetry"
)

const contentType = "text/plain; charset=utf-8"

// ShareURL returns the link-sharing URL for a Drive file id.
func ShareURL(fileID string) string {
	return "https://drive.google.com/file/d/" + url.PathEscape(fileID) + "/view?usp=sharing"
}

// Publisher uploads artifacts to the user's Drive and makes them link-readable.
type Publisher struct {
	folderID   string
	newService ServiceFactory
}

// NewPublisher builds a Publisher. folderID, when set, becomes the parent of every upload.
func NewPublisher(folderID string, factory ServiceFactory) *Publisher {
	if factory == nil {
		factory = NewAPIService
	}
	return &Publisher{folderID: strings.TrimSpace(folderID), newService: factory}
}

// Publish uploads body as fileName and returns its share URL. Missing or invalid
// credentials, or a consent that withheld the Drive scope, skip the upload and return
// nil without error.
func (p *Publisher) Publish(ctx context.Context, creds *auth.Credentials, fileName string, body io.Reader) (*string, error) {
	if creds == nil {
		return nil, nil
	}
	if err := creds.Validate(); err != nil {
		telemetry.Warn("drive.credentials_invalid", map[string]any{"err": err.Error()})
		return nil, nil
	}
	if !creds.HasScope(auth.DriveFileScope) {
		telemetry.Warn("drive.scope_not_granted", map[string]any{"scopes": creds.Scopes})
		return nil, nil
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, errors.New("drive: file name required")
	}

	client := creds.OAuthConfig().Client(ctx, creds.OAuthToken())
	svc, err := p.newService(ctx, client)
	if err != nil {
		return nil, err
	}

	var parents []string
	if p.folderID != "" {
		parents = []string{p.folderID}
	}
	id, err := svc.Create(ctx, fileName, parents, contentType, body)
	if err != nil {
		return nil, err
	}
	if err := svc.ShareWithAnyone(ctx, id); err != nil {
		return nil, err
	}

	link := ShareURL(id)
	telemetry.Info("drive.published", map[string]any{"file_id": id, "file_name": fileName})
	return &link, nil
}
