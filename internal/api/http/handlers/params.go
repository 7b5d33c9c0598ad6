package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

const dateLayout = "2006-01-02"

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}

// formUpload returns the file under field, or nil when the form has none.
func formUpload(c *fiber.Ctx, field string) (*storage.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("multipart form expected", nil)
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	return &storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Save:        func(dst string) error { return c.SaveFile(header, dst) },
	}, nil
}

// splitList reads a comma separated query value.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func convertList[T ~string](raw string) []T {
	parts := splitList(raw)
	if parts == nil {
		return nil
	}
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		out = append(out, T(p))
	}
	return out
}

// parseTime accepts RFC3339 or a plain date. A plain date used as an upper
// bound covers the whole day.
func parseTime(field, val string, endOfDay bool) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{field: val})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseInt(field, val string) (int, error) {
	if val == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return 0, apperrors.NewValidationError("must be a non-negative integer", map[string]any{field: val})
	}
	return parsed, nil
}
