package book

import (
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/platform/isbn"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rejected field of a book. It matches ErrInvalid.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks that every required field is present and the year is positive.
func (b Book) Validate() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		name := jsonName(fe.Field())
		var message string
		switch fe.Tag() {
		case "notblank":
			message = fmt.Sprintf("%s is required", name)
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", name, fe.Param())
		case "gte":
			message = fmt.Sprintf("%s must not be negative", name)
		default:
			message = fmt.Sprintf("%s is invalid", name)
		}
		out.Fields = append(out.Fields, FieldError{Field: name, Message: message})
	}
	return out
}

func jsonName(field string) string {
	switch field {
	case "PublicationYear":
		return "publication_year"
	case "CoverImageURL":
		return "cover_image_url"
	default:
		return strings.ToLower(field)
	}
}

// ParseISBN normalizes user input and rejects it unless it is an ISBN-10 or
// ISBN-13 with a correct check digit.
func ParseISBN(raw string) (string, error) {
	code := isbn.Normalize(raw)
	switch {
	case code == "":
		return "", &ValidationError{Fields: []FieldError{{Field: "isbn", Message: "isbn is required"}}}
	case !isbn.Valid(code):
		return "", &ValidationError{Fields: []FieldError{{Field: "isbn", Message: "isbn must be a valid ISBN-10 or ISBN-13"}}}
	}
	return code, nil
}
