package client

import (
	"errors"
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
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("client: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	err := validate.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Len()%2 == 0
	})
	if err != nil {
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

// target is the validated view of a request before any transfer starts.
type target struct {
	URL    string   `json:"url" validate:"required,url"`
	Method string   `json:"method" validate:"oneof=GET POST PUT"`
	Data   []string `json:"data" validate:"omitempty,even"`
}

// checkTarget validates t, returning a *ContractError for op on failure.
func checkTarget(op string, t target) error {
	if err := validate.Struct(t); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return contractErr(op, err)
		}

		var fields FieldErrors
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Err:   customErrForTag(verror.Tag(), verror),
			})
		}

		return &ContractError{Op: op, Fields: fields, Err: ErrContract}
	}

	return nil
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	case "even":
		return "must hold an even number of key/value strings"
	default:
		return verror.Translate(translator)
	}
}
