package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"github.com/healthmate/healthmate-api/internal/middleware"
)

// Default page sizes
const (
	defaultPageLimit     = 10
	chatHistoryPageLimit = 20
	reminderPageLimit    = 20
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return health.ValidClock(fl.Field().String())
	})
	return v
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrDoctorBusy),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrCannotCancel),
		errors.Is(err, domain.ErrInvalidPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAIRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrAIMisconfigured),
		errors.Is(err, domain.ErrAIUnavailable),
		errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error envelope. Unmapped errors are returned to
// the app error handler, which logs them and hides the detail.
func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		return err
	}

	message := err.Error()
	if errors.Is(err, domain.ErrNotFound) {
		message = "Resource not found"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func paginated(c *fiber.Ctx, message string, data interface{}, page domain.Page, total int64) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"data":       data,
		"pagination": domain.NewPagination(page, total),
	})
}

// parseBody decodes the JSON body into dst and validates it
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return validateStruct(dst)
}

func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "clock":
		return field + " must be HH:MM"
	case "numeric":
		return field + " must contain digits only"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func parsePage(c *fiber.Ctx, defaultLimit int) domain.Page {
	return domain.NewPage(c.QueryInt("page", 1), c.QueryInt("limit", defaultLimit), defaultLimit)
}

// parseDate reads an optional YYYY-MM-DD or RFC 3339 query value
func parseDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrValidation, key)
	}
	return &t, nil
}

// parseDateRange reads startDate/endDate. A date-only end covers its whole day.
func parseDateRange(c *fiber.Ctx) (domain.DateRange, error) {
	from, err := parseDate(c, "startDate")
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseDate(c, "endDate")
	if err != nil {
		return domain.DateRange{}, err
	}
	if to != nil && len(c.Query("endDate")) == len(dateLayout) {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return domain.DateRange{From: from, To: to}, nil
}

type requiredField struct {
	name string
	set  bool
}

// requireFields reports every unset field, in order
func requireFields(fields ...requiredField) error {
	var missing []string
	for _, f := range fields {
		if !f.set {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(missing, "; "))
}

// queryBool reads an optional true/false query value
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	switch c.Query(key) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, key)
	}
}

// jsonDate accepts YYYY-MM-DD or RFC 3339 in request bodies
type jsonDate struct {
	time.Time
}

func (d *jsonDate) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q", raw)
	}
	d.Time = t
	return nil
}

// timeOf unwraps an optional body date
func timeOf(d *jsonDate) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func userID(c *fiber.Ctx) string {
	return middleware.GetUserID(c)
}
