package download

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("download: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("plainname", func(fl validator.FieldLevel) bool {
		return checkFileName(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// Request is the validated form of a single download call. An empty
// FileName means the name is derived from the source URL.
type Request struct {
	Folder    string `json:"folder" validate:"required"`
	FileName  string `json:"file_name" validate:"omitempty,plainname"`
	ChunkSize int    `json:"chunk_size" validate:"gt=0,lte=67108864"` // lte is MaxChunkSize
}

// Validate checks r against its declared tags. Folder and file name
// problems wrap ErrInvalidDestination, chunk size problems wrap
// ErrInvalidChunkSize, and the per-field detail is available as FieldErrors.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	var (
		fields    FieldErrors
		badDest   bool
		badChunks bool
	)
	for _, verror := range verrors {
		fields = append(fields, FieldError{
			Field: verror.Field(),
			Err:   customErrForTag(verror.Tag(), verror),
		})

		if verror.StructField() == "ChunkSize" {
			badChunks = true
		} else {
			badDest = true
		}
	}

	var sentinels []error
	if badDest {
		sentinels = append(sentinels, ErrInvalidDestination)
	}
	if badChunks {
		sentinels = append(sentinels, ErrInvalidChunkSize)
	}

	return fmt.Errorf("%w: %w", errors.Join(sentinels...), fields)
}

// FieldError represents a single validation error for a specific field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// Fields returns the field errors keyed by field name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}
	return m
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	case "plainname":
		return "must be a plain file name without path separators"
	default:
		return verror.Translate(translator)
	}
}
