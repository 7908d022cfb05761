package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody parses the request body into dest and runs struct
// validation. An empty body decodes to the zero value so that required-field
// checks still report every absent field.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.Wrap(pkgerrors.CodeMissingFields, err, "invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var missing []string
		for _, fieldErr := range errs {
			if fieldErr.Tag() == "required" {
				missing = append(missing, fieldErr.Field())
			}
		}
		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeMissingFields, "missing required fields").WithMissing(missing)
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeMissingFields, err, "validation failed")
}
