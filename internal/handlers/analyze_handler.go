package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
	".text": true,
}

type AnalyzeHandler struct {
	orchestrator services.BatchOrchestrator
	maxFileSize  int64
	logger       *zap.Logger
}

func NewAnalyzeHandler(
	orchestrator services.BatchOrchestrator,
	maxFileSize int64,
	logger *zap.Logger,
) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{
		orchestrator: orchestrator,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// HandleAnalyze scores every uploaded resume against the job description and
// answers with the ranked results. The request blocks until the batch is done;
// clients poll the progress endpoint with the same job token meanwhile.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "failed to parse multipart form")
	}

	jdFiles := form.File["job_description"]
	if len(jdFiles) == 0 {
		jdFiles = form.File["jd"]
	}
	if len(jdFiles) == 0 {
		return badRequest(c, "job_description file is required")
	}

	resumeFiles := form.File["resumes"]
	if len(resumeFiles) == 0 {
		return badRequest(c, "at least one file in 'resumes' is required")
	}

	jd, err := h.readUpload(jdFiles[0])
	if err != nil {
		return badRequest(c, err.Error())
	}

	resumes := make([]models.Upload, 0, len(resumeFiles))
	for _, fh := range resumeFiles {
		upload, err := h.readUpload(fh)
		if err != nil {
			return badRequest(c, err.Error())
		}
		resumes = append(resumes, upload)
	}

	jobToken := strings.TrimSpace(c.FormValue("job_token"))

	report, err := h.orchestrator.Analyze(c.UserContext(), services.AnalyzeRequest{
		JobDescription: jd,
		Resumes:        resumes,
		JobToken:       jobToken,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(report)
}

func (h *AnalyzeHandler) readUpload(fh *multipart.FileHeader) (models.Upload, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return models.Upload{}, fmt.Errorf("%s: unsupported file type %q", fh.Filename, ext)
	}
	if fh.Size > h.maxFileSize {
		return models.Upload{}, fmt.Errorf("%s: file too large. Max size: %d bytes", fh.Filename, h.maxFileSize)
	}

	f, err := fh.Open()
	if err != nil {
		return models.Upload{}, fmt.Errorf("%s: failed to open upload", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Upload{}, fmt.Errorf("%s: failed to read upload", fh.Filename)
	}
	return models.Upload{Filename: fh.Filename, Data: data}, nil
}

func (h *AnalyzeHandler) writeError(c *fiber.Ctx, err error) error {
	resp := models.ErrorResponse{Error: err.Error()}
	status := fiber.StatusInternalServerError

	var batchErr *services.BatchError
	if errors.As(err, &batchErr) {
		resp.Error = batchErr.Err.Error()
		resp.Code = string(batchErr.Code)
		resp.JobToken = batchErr.JobToken
		status = statusForCode(batchErr.Code)
	}

	if status >= fiber.StatusInternalServerError {
		h.logger.Error("analysis request failed", zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrCodeInvalidInput:
		return fiber.StatusBadRequest
	case services.ErrCodeJobDescriptionFailed:
		return fiber.StatusUnprocessableEntity
	case services.ErrCodeJobTokenInUse:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: msg,
		Code:  string(services.ErrCodeInvalidInput),
	})
}
