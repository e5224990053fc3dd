package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

type ProgressHandler struct {
	ledger services.ProgressLedger
}

func NewProgressHandler(ledger services.ProgressLedger) *ProgressHandler {
	return &ProgressHandler{
		ledger: ledger,
	}
}

// HandleGetProgress reports the ledger entry for a job token. Unknown and
// expired tokens both answer 404.
func (h *ProgressHandler) HandleGetProgress(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "job token is required")
	}

	job, ok, err := h.ledger.Get(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "failed to read job progress",
			Code:  string(services.ErrCodeLedgerFailed),
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: services.ErrJobNotFound.Error(),
		})
	}

	return c.JSON(models.NewProgressResponse(job))
}
