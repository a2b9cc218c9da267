package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"path_finder/pkg/routing"
)

// newValidator returns a validator that reports JSON field names, knows the
// "algorithm" tag, and an English translator for its errors.
func newValidator() (*validator.Validate, ut.Translator) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		_, err := routing.ParseAlgorithm(fl.Field().String())
		return err == nil
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation("algorithm", trans,
		func(t ut.Translator) error {
			return t.Add("algorithm", "{0} must be one of dijkstra, bellman-ford, floyd-warshall", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("algorithm", fe.Field())
			return msg
		},
	)

	return v, trans
}
