package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/99minutos/invoicing-system/internal/core/domain"
)

const dateLayout = "2006-01-02"

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	mobilePattern   = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	mobileNoise     = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are compared as numbers so gt=0 works on amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(mobileNoise.Replace(fl.Field().String()))
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	v.RegisterStructValidation(dueNotBeforeIssue, createInvoiceRequest{})
	v.RegisterStructValidation(dueNotBeforeIssuePatch, updateInvoiceRequest{})

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures wrap
// domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func dueNotBeforeIssue(sl validator.StructLevel) {
	req := sl.Current().Interface().(createInvoiceRequest)
	checkDates(sl, req.IssueDate, req.DueDate)
}

func dueNotBeforeIssuePatch(sl validator.StructLevel) {
	req := sl.Current().Interface().(updateInvoiceRequest)
	if req.IssueDate == nil || req.DueDate == nil {
		return
	}
	checkDates(sl, *req.IssueDate, *req.DueDate)
}

func checkDates(sl validator.StructLevel, issue, due string) {
	if issue == "" || due == "" {
		return
	}
	issued, err := time.Parse(dateLayout, issue)
	if err != nil {
		return
	}
	dueAt, err := time.Parse(dateLayout, due)
	if err != nil {
		return
	}
	if dueAt.Before(issued) {
		sl.ReportError(due, "due_date", "DueDate", "gtefield", "issue_date")
	}
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "username":
		return field + " can only contain letters, numbers, and underscores"
	case "mobile":
		return field + " must be a valid mobile number"
	case "password":
		return fmt.Sprintf("%s must be at most %d bytes", field, maxPasswordBytes)
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
