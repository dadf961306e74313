package ideas

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/artifacts"
	"idea-analyzer/internal/extract"
	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/telemetry"
)

const (
	msgInputRequired = "გთხოვთ, შეიყვანეთ ტექსტი ან ატვირთეთ ფაილი."
	msgUnsupported   = "❌ მხარდაჭერილია მხოლოდ %s ფაილები."
	msgNoText        = "❌ ფაილიდან ტექსტის ამოღება ვერ მოხერხდა."
	msgTooLarge      = "❌ ფაილი ძალიან დიდია (მაქსიმუმ %d MB)."
	msgUploadFailed  = "❌ ფაილის მიღება ვერ მოხერხდა, სცადეთ თავიდან."
	msgStoreFailed   = "❌ ანალიზის შენახვა ვერ მოხერხდა, სცადეთ თავიდან."
	msgPublishFailed = "⚠️ Google Drive-ზე ატვირთვა ვერ მოხერხდა, ანალიზი შენახულია ლოკალურად."
)

const formOverheadBytes = 1 << 20

// Archive parts may inflate to this multiple of the upload limit.
const entryInflationFactor = 16

// Handler serves the idea form and its submissions.
type Handler struct {
	svc         *Service
	maxUploadMB int
	tempDir     string
	extractor   extract.Extractor
}

// NewHandler constructs a Handler. Uploads are spooled to tempDir (the OS default when
// empty) and rejected above maxUploadMB.
func NewHandler(svc *Service, maxUploadMB int, tempDir string) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	h := &Handler{svc: svc, maxUploadMB: maxUploadMB, tempDir: tempDir}
	h.extractor = extract.Extractor{MaxEntryBytes: entryInflationFactor * h.maxUploadBytes()}
	return h
}

// RegisterRoutes attaches the page routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.POST("/", h.submit)
}

func (h *Handler) maxUploadBytes() int64 {
	return int64(h.maxUploadMB) << 20
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPageView(session.FromContext(c)))
}

func (h *Handler) fail(c *gin.Context, status int, view pageView, msg string) {
	view.Error = msg
	c.HTML(status, "index.html", view)
}

func (h *Handler) submit(c *gin.Context) {
	sess := session.FromContext(c)
	view := newPageView(sess)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes()+formOverheadBytes)

	text := strings.TrimSpace(c.PostForm("text_idea"))
	var sub Submission

	switch fh, fileErr := c.FormFile("file"); {
	case text != "":
		sub = Submission{Text: text, SourceKind: artifacts.SourceText}
	case isBodyTooLarge(fileErr):
		h.fail(c, http.StatusRequestEntityTooLarge, view, fmt.Sprintf(msgTooLarge, h.maxUploadMB))
		return
	case fileErr == nil && strings.TrimSpace(fh.Filename) != "":
		extracted, status, msg := h.extractUpload(c, fh)
		if msg != "" {
			h.fail(c, status, view, msg)
			return
		}
		sub = extracted
	default:
		h.fail(c, http.StatusBadRequest, view, msgInputRequired)
		return
	}
	view.TextIdea = text

	out, err := h.svc.Process(c.Request.Context(), sess, sub)
	if err != nil {
		telemetry.Error("ideas.store_failed", map[string]any{
			"session": sess.Hash(),
			"err":     err.Error(),
		})
		_ = c.Error(err)
		h.fail(c, http.StatusInternalServerError, view, msgStoreFailed)
		return
	}

	c.Set(middleware.ArtifactKey, out.FileName)
	view = newPageView(sess)
	view.TextIdea = text
	view.Result = renderMarkdown(out.Analysis)
	view.FileName = out.FileName
	if out.DriveLink != nil {
		view.DriveLink = *out.DriveLink
	}
	if out.PublishFailed {
		view.Warning = msgPublishFailed
	}
	c.HTML(http.StatusOK, "index.html", view)
}

// extractUpload validates the extension before touching the body, spools the upload to
// a temp file and extracts its text. A non-empty msg is a user-facing error.
func (h *Handler) extractUpload(c *gin.Context, fh *multipart.FileHeader) (Submission, int, string) {
	kind, err := extract.KindFromFileName(fh.Filename)
	if err != nil {
		return Submission{}, http.StatusBadRequest, fmt.Sprintf(msgUnsupported, strings.Join(extract.SupportedExtensions(), ", "))
	}
	if fh.Size > h.maxUploadBytes() {
		return Submission{}, http.StatusRequestEntityTooLarge, fmt.Sprintf(msgTooLarge, h.maxUploadMB)
	}

	path, err := h.spool(fh)
	if err != nil {
		telemetry.Error("ideas.upload_failed", map[string]any{"err": err.Error()})
		return Submission{}, http.StatusInternalServerError, msgUploadFailed
	}
	defer os.Remove(path)

	res := h.extractor.File(c.Request.Context(), path, kind)
	if !res.HasText() {
		return Submission{}, http.StatusUnprocessableEntity, msgNoText
	}
	return Submission{
		Text:       strings.TrimSpace(res.Text),
		SourceName: fh.Filename,
		SourceKind: string(kind),
	}, http.StatusOK, ""
}

func (h *Handler) spool(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(h.tempDir, "upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, h.maxUploadBytes()+1)); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return dst.Name(), nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
