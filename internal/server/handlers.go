package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/maauso/shorts-api/internal/media"
	"github.com/maauso/shorts-api/internal/render"
	"github.com/maauso/shorts-api/internal/storage"
)

// Form fields accepted by POST /.
const (
	fieldFiles              = "files[]"
	fieldTransitionType     = "transition_type"
	fieldClipDuration       = "clip_duration"
	fieldTransitionDuration = "transition_duration"
	fieldPushToS3           = "push_to_s3"
)

// Multipart parts beyond this size are spooled to disk by net/http.
const maxFormMemory = 8 << 20

// ErrInvalidParameter is returned when a form value cannot be parsed.
var ErrInvalidParameter = errors.New("invalid parameter")

//go:embed static/upload.html
var uploadForm []byte

// Renderer turns a directory of staged media into a video.
type Renderer interface {
	Render(ctx context.Context, inputDir, outputPath string, job render.Job) (*render.Result, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	renderer    Renderer
	storage     storage.Storage
	logger      *slog.Logger
	publishS3   bool
	s3KeyPrefix string
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithS3Publishing allows clients to request upload of the result with
// push_to_s3=true. Objects are stored under prefix.
func WithS3Publishing(enabled bool, prefix string) HandlerOption {
	return func(h *Handlers) {
		h.publishS3 = enabled
		h.s3KeyPrefix = strings.Trim(prefix, "/")
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(renderer Renderer, store storage.Storage, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		renderer:    renderer,
		storage:     store,
		logger:      logger,
		s3KeyPrefix: "shorts",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// UploadForm handles GET / requests.
func (h *Handlers) UploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(uploadForm)
}

// Render handles POST / requests. The uploaded media is staged in a private
// workspace that is removed before the handler returns, on every path.
func (h *Handlers) Render(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("request_id", RequestIDFromContext(r.Context())))

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeText(w, http.StatusRequestEntityTooLarge, "Request too large")
			return
		}
		logger.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		writeText(w, http.StatusBadRequest, "No file part")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// A file input submitted with nothing selected arrives as a part with an
	// empty filename, which multipart stores as a plain value.
	files := r.MultipartForm.File[fieldFiles]
	if len(files) == 0 {
		if _, ok := r.MultipartForm.Value[fieldFiles]; ok {
			writeText(w, http.StatusBadRequest, "No selected file")
			return
		}
		writeText(w, http.StatusBadRequest, "No file part")
		return
	}
	if files[0].Filename == "" {
		writeText(w, http.StatusBadRequest, "No selected file")
		return
	}

	job, err := parseRenderJob(r)
	if err != nil {
		logger.Warn("invalid render parameters", slog.String("error", err.Error()))
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if job.PushToS3 && !h.publishS3 {
		writeText(w, http.StatusBadRequest, "S3 publishing is not configured")
		return
	}

	ws, err := h.storage.NewWorkspace(r.Context())
	if err != nil {
		logger.Error("failed to create workspace", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create workspace", "WORKSPACE_FAILED")
		return
	}
	defer func() {
		if err := ws.Release(); err != nil {
			logger.Error("failed to release workspace",
				slog.String("workspace", ws.Dir()),
				slog.String("error", err.Error()),
			)
		}
	}()

	staged, err := h.stageFiles(r.Context(), ws, files)
	if err != nil {
		logger.Error("failed to stage uploads", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store uploads", "STAGING_FAILED")
		return
	}

	logger.Info("render requested",
		slog.String("workspace", ws.ID()),
		slog.Int("uploaded", len(files)),
		slog.Int("staged", staged),
		slog.String("transition", job.Transition.String()),
	)

	result, err := h.renderer.Render(r.Context(), ws.InputDir(), ws.OutputPath(), job)
	if err != nil {
		switch {
		case errors.Is(err, render.ErrNoClips):
			writeText(w, http.StatusUnprocessableEntity, "No valid media files to render")
		case errors.Is(err, render.ErrInvalidJob):
			writeText(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("render failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to render video", "RENDER_FAILED")
		}
		return
	}

	if job.PushToS3 {
		h.publish(w, r, logger, ws, result)
		return
	}
	h.download(w, r, logger, result)
}

// stageFiles saves every allowed upload into the workspace under a sanitised
// name and returns how many were kept.
func (h *Handlers) stageFiles(ctx context.Context, ws *storage.Workspace, files []*multipart.FileHeader) (int, error) {
	staged := 0
	for _, fh := range files {
		if !media.IsAllowed(fh.Filename) {
			continue
		}
		name := storage.SanitizeFilename(fh.Filename)
		if !media.IsAllowed(name) {
			continue
		}
		if err := saveUpload(ctx, ws, name, fh); err != nil {
			return staged, err
		}
		staged++
	}
	return staged, nil
}

func saveUpload(ctx context.Context, ws *storage.Workspace, name string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", name, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := ws.Save(ctx, name, src); err != nil {
		return fmt.Errorf("save upload %s: %w", name, err)
	}
	return nil
}

func (h *Handlers) publish(w http.ResponseWriter, r *http.Request, logger *slog.Logger, ws *storage.Workspace, result *render.Result) {
	f, err := os.Open(result.OutputPath)
	if err != nil {
		logger.Error("failed to open output video", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read video", "OUTPUT_MISSING")
		return
	}
	defer func() { _ = f.Close() }()

	key := ws.ID() + ".mp4"
	if h.s3KeyPrefix != "" {
		key = h.s3KeyPrefix + "/" + key
	}

	url, err := h.storage.UploadToS3(r.Context(), key, f)
	if err != nil {
		logger.Error("failed to upload video", slog.String("key", key), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to upload video", "UPLOAD_FAILED")
		return
	}

	logger.Info("video published", slog.String("url", url))
	writeJSON(w, http.StatusOK, RenderResponse{
		VideoURL:    url,
		Clips:       result.Clips,
		DurationSec: result.Duration,
	})
}

func (h *Handlers) download(w http.ResponseWriter, r *http.Request, logger *slog.Logger, result *render.Result) {
	f, err := os.Open(result.OutputPath)
	if err != nil {
		logger.Error("failed to open output video", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read video", "OUTPUT_MISSING")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		logger.Error("failed to stat output video", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read video", "OUTPUT_MISSING")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+storage.OutputName+`"`)
	http.ServeContent(w, r, storage.OutputName, info.ModTime(), f)
}

// parseRenderJob reads render parameters from the form. Absent or empty
// fields take their defaults; present values must parse and be in range.
func parseRenderJob(r *http.Request) (render.Job, error) {
	job := render.DefaultJob()

	if v := strings.TrimSpace(r.PostFormValue(fieldTransitionType)); v != "" {
		job.Transition = media.ParseTransition(v)
	}

	var err error
	if job.ClipDuration, err = parseFloatField(r, fieldClipDuration, job.ClipDuration); err != nil {
		return job, err
	}
	if job.TransitionDuration, err = parseFloatField(r, fieldTransitionDuration, job.TransitionDuration); err != nil {
		return job, err
	}

	if v := strings.TrimSpace(r.PostFormValue(fieldPushToS3)); v != "" {
		push, err := strconv.ParseBool(v)
		if err != nil {
			return job, fmt.Errorf("%w: %s must be true or false", ErrInvalidParameter, fieldPushToS3)
		}
		job.PushToS3 = push
	}

	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("%w: durations out of range", ErrInvalidParameter)
	}
	return job, nil
}

func parseFloatField(r *http.Request, field string, def float64) (float64, error) {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidParameter, field)
	}
	return f, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeText writes a plain text response, used for errors a browser form
// submission shows to the user.
func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
