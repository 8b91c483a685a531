// Package validate checks option structs built from configuration
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	perr "marketingetl/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Svc
)

var (
	metaAccount = regexp.MustCompile(`^act_[0-9]+$`)
	customerID  = regexp.MustCompile(`^[0-9]{3}-?[0-9]{3}-?[0-9]{4}$`)
)

// Init initializes the singleton validator with english translations and env tag names
func Init() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// messages name the env key that fed the field
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("env")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShort(v, trans, "min", "{0} must be at least {1}", true)
		registerShort(v, trans, "max", "{0} must be at most {1}", true)

		register(v, trans, "write_mode", "{0} must be upsert or insert", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "upsert" || s == "insert"
		})
		register(v, trans, "ymd", "{0} must be a YYYY-MM-DD date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
		register(v, trans, "meta_account", "{0} must look like act_<digits>", func(fl validator.FieldLevel) bool {
			return metaAccount.MatchString(fl.Field().String())
		})
		register(v, trans, "customer_id", "{0} must be a 10 digit customer id", func(fl validator.FieldLevel) bool {
			return customerID.MatchString(fl.Field().String())
		})

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc { return Init() }

// Struct validates v and maps every failure into one config error naming the
// offending keys; the first key is attached as the error field
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validator internal error")
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return perr.Wrap(err, perr.ErrorCodeConfig, "invalid configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(Get().Translator))
	}
	return perr.WithField(perr.Newf(perr.ErrorCodeConfig, "invalid configuration: %s", strings.Join(msgs, "; ")), verrs[0].Field())
}

// Var validates a single value against tag
func Var(field any, tag string) error {
	if err := Get().Validator.Var(field, tag); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "invalid value %v", field)
	}
	return nil
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string, override bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, override)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

func register(v *validator.Validate, trans ut.Translator, tag, text string, fn validator.Func) {
	_ = v.RegisterValidation(tag, fn)
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}
