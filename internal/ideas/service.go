package ideas

import (
	"context"
	"io"
	"strings"
	"time"

	"idea-analyzer/internal/artifacts"
	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/telemetry"
)

type analyzer interface {
	Analyze(ctx context.Context, text string) string
}

type artifactStore interface {
	Save(ctx context.Context, sessionHash, fileName, sourceKind, content string) (artifacts.Artifact, error)
	RecordDriveLink(ctx context.Context, a *artifacts.Artifact, link string)
}

type publisher interface {
	Publish(ctx context.Context, creds *auth.Credentials, fileName string, body io.Reader) (*string, error)
}

// Submission is one idea to analyze: typed text, or text extracted from an upload.
type Submission struct {
	Text       string
	SourceName string
	SourceKind string
}

// Outcome is what the page shows after a submission.
type Outcome struct {
	Analysis      string
	FileName      string
	DriveLink     *string
	PublishFailed bool
	Artifact      artifacts.Artifact
}

// Service runs analyze, store, publish and record in sequence.
type Service struct {
	Analyzer     analyzer
	Artifacts    artifactStore
	Publisher    publisher
	HistoryLimit int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Process analyzes sub for sess and appends the result to the session history. Only a
// storage failure is returned; a failed publish leaves the link nil.
func (s *Service) Process(ctx context.Context, sess *session.Session, sub Submission) (Outcome, error) {
	analysis := s.Analyzer.Analyze(ctx, sub.Text)
	fileName := artifacts.FileName(sub.SourceName)

	art, err := s.Artifacts.Save(ctx, sess.Hash(), fileName, sub.SourceKind, analysis)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Analysis: analysis, FileName: fileName, Artifact: art}

	link, err := s.Publisher.Publish(ctx, sess.Credentials, fileName, strings.NewReader(analysis))
	switch {
	case err != nil:
		metrics.ObservePublish(metrics.PublishFailed)
		telemetry.Warn("drive.publish_failed", map[string]any{
			"session":   sess.Hash(),
			"file_name": fileName,
			"err":       err.Error(),
		})
		out.PublishFailed = true
	case link == nil:
		metrics.ObservePublish(metrics.PublishSkipped)
	default:
		metrics.ObservePublish(metrics.PublishOK)
		out.DriveLink = link
		s.Artifacts.RecordDriveLink(ctx, &out.Artifact, *link)
	}

	sess.AddHistory(session.HistoryEntry{
		FileName:  fileName,
		DriveLink: out.DriveLink,
		CreatedAt: s.now(),
	}, s.HistoryLimit)

	return out, nil
}
