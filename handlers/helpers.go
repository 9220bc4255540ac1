package handlers

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	dateLayout    = "2006-01-02"
	maxUploadSize = 10 << 20
)

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindValidation:    fiber.StatusBadRequest,
	apperrors.KindState:         fiber.StatusConflict,
	apperrors.KindPrecondition:  fiber.StatusUnprocessableEntity,
	apperrors.KindConflict:      fiber.StatusConflict,
	apperrors.KindAuthorization: fiber.StatusForbidden,
	apperrors.KindNotFound:      fiber.StatusNotFound,
}

// respondError writes workflow errors with their kind; anything else is
// logged and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		slog.Error("🔥 request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error", "kind": "internal"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message, "kind": apperrors.KindValidation})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return badRequest(c, utils.FormatValidationErrors(err))
}

func actorFrom(c *fiber.Ctx) (services.Actor, error) {
	id, role, err := middleware.CurrentUser(c)
	if err != nil {
		return services.Actor{}, apperrors.Authorization("authentication required")
	}
	return services.Actor{ID: id, Role: role}, nil
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("%s must be a valid id", name)
	}
	return id, nil
}

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, apperrors.Validation("%s must be a date formatted as YYYY-MM-DD", field)
	}
	return &t, nil
}

func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// storeFormFile uploads the multipart file in field, if any. A request
// without the field yields an empty FileRef.
func storeFormFile(c *fiber.Ctx, field, folder string) (models.FileRef, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return models.FileRef{}, nil
	}
	if fh.Size > maxUploadSize {
		return models.FileRef{}, apperrors.Validation("%s exceeds the %d MB upload limit", field, maxUploadSize>>20)
	}
	if storage.Default == nil {
		return models.FileRef{}, apperrors.Validation("file uploads are not available, send a url instead")
	}
	stored, err := storage.Default.Store(c.UserContext(), fh, folder)
	if err != nil {
		return models.FileRef{}, err
	}
	return models.FileRef{Path: stored.Path, Name: stored.Name, URL: stored.URL}, nil
}

// discardFiles removes uploads left behind by a request that failed.
func discardFiles(c *fiber.Ctx, refs ...models.FileRef) {
	if storage.Default == nil {
		return
	}
	for _, ref := range refs {
		if ref.Path == "" {
			continue
		}
		if err := storage.Default.Delete(c.UserContext(), ref.Path); err != nil {
			slog.Warn("failed to delete orphaned upload", "path", ref.Path, "error", err)
		}
	}
}

func statusResponse(id uuid.UUID, status any) fiber.Map {
	return fiber.Map{"id": id, "status": status}
}
