package sync

import (
	"context"
	"errors"

	"crm-sync/core/logger"
	"crm-sync/feature/sync/audit"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type runFunc func(ctx context.Context, kind string, req RunRequest) (*report.RunReport, error)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/:kind/fields", h.HandleGetFields)
	group.Post("/:kind/pull", h.HandlePull)
	group.Post("/:kind/push", h.HandlePush)
	group.Get("/:kind/links/:remoteId", h.HandleGetLink)
	group.Get("/:kind/audit", h.HandleAudit)
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var (
		kindErr   *models.UnsupportedKindError
		schemaErr *models.SchemaError
		queryErr  *models.RemoteQueryError
		writeErr  *models.RemoteWriteError
	)
	switch {
	case errors.As(err, &kindErr), errors.Is(err, ErrObjectDisabled):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrLinkNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &schemaErr), errors.As(err, &queryErr), errors.As(err, &writeErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleGetFields returns the field descriptors of an object kind.
// @Summary Get Fields
// @Description List the default and custom fields of an object kind.
// @Tags sync
// @Produce json
// @Param kind path string true "Object kind (contact or company)"
// @Success 200 {array} models.FieldDescriptor "Fields"
// @Failure 400 {object} map[string]string "Unsupported or disabled kind"
// @Failure 502 {object} map[string]string "Remote schema failure"
// @Router /sync/{kind}/fields [get]
func (h *Handler) HandleGetFields(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fields, err := h.service.Fields(c.Context(), c.Params("kind"))
	if err != nil {
		l.Error("Field discovery failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fields)
}

// HandlePull runs a pull.
// @Summary Pull
// @Description Copy remote records of a kind into the local store.
// @Tags sync
// @Accept json
// @Produce json
// @Param kind path string true "Object kind (contact or company)"
// @Param request body RunRequest false "Window and limit"
// @Success 200 {object} report.RunReport "Run report"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]interface{} "Remote failure with the partial run report"
// @Router /sync/{kind}/pull [post]
func (h *Handler) HandlePull(c *fiber.Ctx) error {
	return h.handleRun(c, "pull", h.service.Pull)
}

// HandlePush runs a push.
// @Summary Push
// @Description Send local changes of a kind to the remote side.
// @Tags sync
// @Accept json
// @Produce json
// @Param kind path string true "Object kind (contact or company)"
// @Param request body RunRequest false "Window and limit"
// @Success 200 {object} report.RunReport "Run report"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 502 {object} map[string]interface{} "Remote failure with the partial run report"
// @Router /sync/{kind}/push [post]
func (h *Handler) HandlePush(c *fiber.Ctx) error {
	return h.handleRun(c, "push", h.service.Push)
}

func (h *Handler) handleRun(c *fiber.Ctx, direction string, run runFunc) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	rep, err := run(c.Context(), c.Params("kind"), req)
	if err != nil {
		l.Error("Sync run failed", zap.String("direction", direction), zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if rep != nil {
			body["report"] = rep
		}
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.JSON(rep)
}

// HandleGetLink returns the link row of a remote record.
// @Summary Get Link
// @Description Look up the local entity linked to a remote record.
// @Tags sync
// @Produce json
// @Param kind path string true "Object kind (contact or company)"
// @Param remoteId path string true "Remote internal id"
// @Success 200 {object} models.LinkRow "Link"
// @Failure 404 {object} map[string]string "Not linked"
// @Router /sync/{kind}/links/{remoteId} [get]
func (h *Handler) HandleGetLink(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	row, err := h.service.Link(c.Context(), c.Params("kind"), c.Params("remoteId"))
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			l.Error("Link lookup failed", zap.Error(err))
		}
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(row)
}

// HandleAudit reports stale links of an object kind.
// @Summary Audit Links
// @Description Check link rows against local entities and remote records. Prune actions are listed but never executed.
// @Tags sync
// @Produce json
// @Param kind path string true "Object kind (contact or company)"
// @Success 200 {object} audit.Plan "Audit plan"
// @Failure 400 {object} map[string]string "Unsupported or disabled kind"
// @Failure 502 {object} map[string]string "Remote failure"
// @Router /sync/{kind}/audit [get]
func (h *Handler) HandleAudit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Audit(c.Context(), c.Params("kind"), audit.Options{DoPrune: true, DryRun: true})
	if err != nil {
		l.Error("Link audit failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}
