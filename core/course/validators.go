package course

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
)

var (
	distinctOptionsTag  = "distinctoptions"
	distinctOptionsText = "each question needs 4 different options"
)

// InitValidators registers the course validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	core.RegisterCustomTranslation(validate, translator, distinctOptionsTag, distinctOptionsText)
}

// questionStructValidation rejects questions with repeated options.
func questionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(NewQuestion)
	if !ok {
		return
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if key == "" {
			continue // reported by `required`
		}
		if seen[key] {
			sl.ReportError(q.Options, "options", "Options", distinctOptionsTag, "")
			return
		}
		seen[key] = true
	}
}
