package flexcommon

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

var validate *validator.Validate

// Slugs become part of URLs and log lines; keep them lowercase
// alphanumerics with interior hyphens.
var slugRegexp = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func init() {
	validate = validator.New()
	// Report fields under their wire names so validation messages read
	// like the request the caller sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("resourceSlug", func(fl validator.FieldLevel) bool {
		return slugRegexp.MatchString(fl.Field().String())
	})
}

// ValidateStruct runs the validate tags on v and converts the first
// failure into an ErrValidation with a caller-facing message.
func ValidateStruct(v any) apperrors.Error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return dberror.ErrValidation.Msg(fe.Field() + " is required")
		case "resourceSlug":
			return dberror.ErrValidation.Msg(fe.Field() + " must be lowercase alphanumerics and hyphens")
		}
		return dberror.ErrValidation.Msg(fe.Field() + " is invalid")
	}
	return dberror.ErrValidation.Err(err)
}
