package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// ErrTranslatorNotFound indicates the English translator could not be built.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10Validator implements Validator with go-playground/validator and English
// messages.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps a field name to its message. The name is the json
// tag when present, the snake_case Go field name otherwise.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	//nolint:errchkjson // map[string]string always encodes
	b, _ := json.Marshal(map[string]string(vs))
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string {
	return vs
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	lang := en.New()
	trans, ok := ut.New(lang, lang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

// Validate checks a struct against its validate tags.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	return V10ValidationError(lo.SliceToMap(fieldErrs, func(fe validator.FieldError) (string, string) {
		return fe.Field(), fe.Translate(v.translator)
	}))
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return lo.SnakeCase(fld.Name)
	}
	return name
}
