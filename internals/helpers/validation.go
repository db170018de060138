package helper

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	hhmm         = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	academicYear = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

// custom validation tags
const (
	notBlankTag    = "notblank"
	decimalGT0Tag  = "decimal_gt0"
	decimalGTE0Tag = "decimal_gte0"
	clockTag       = "hhmm"
	yearSpanTag    = "academic_year"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// JSON tag names in messages
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = Validate.RegisterValidation(decimalGT0Tag, func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.GreaterThan(decimal.Zero)
	})
	_ = Validate.RegisterValidation(decimalGTE0Tag, func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && !d.IsNegative()
	})
	_ = Validate.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation(yearSpanTag, func(fl validator.FieldLevel) bool {
		return academicYear.MatchString(fl.Field().String())
	})

	registerCustomTranslations(notBlankTag, decimalGT0Tag, decimalGTE0Tag, clockTag, yearSpanTag)
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case decimalGT0Tag:
		return fe.Field() + " must be greater than 0"
	case decimalGTE0Tag:
		return fe.Field() + " must be 0 or greater"
	case clockTag:
		return fe.Field() + " must be a time in HH:MM format"
	case yearSpanTag:
		return fe.Field() + " must look like 2024-2025"
	default:
		return fe.Field() + " is invalid"
	}
}

// ValidateStruct returns nil when s is valid, otherwise messages keyed by JSON field.
func ValidateStruct(s any) map[string][]string {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	out := map[string][]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fe.Translate(Translator))
	}
	return out
}

// BindAndValidate parses the JSON body into dst and validates it.
// A non-nil return is an *AppError ready for FromError.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return BadRequest("invalid json: " + err.Error())
	}
	if fields := ValidateStruct(dst); fields != nil {
		return &AppError{Status: fiber.StatusBadRequest, Message: "validation failed", Fields: fields}
	}
	return nil
}
