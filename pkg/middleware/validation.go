package middleware

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	skuPattern        = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,49}$`)
	postalCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,9}$`)
)

var serviceLevels = []string{"standard", "express", "economy"}

// customRules are registered on both the standalone and the Gin validator
var customRules = []struct {
	tag     string
	check   func(string) bool
	message string
}{
	{"sku", skuPattern.MatchString, "must be a valid SKU (alphanumeric with dashes)"},
	{"postal_code", postalCodePattern.MatchString, "must be a valid postal code"},
	{"service_level", func(s string) bool { return slices.Contains(serviceLevels, s) }, "must be one of: " + strings.Join(serviceLevels, ", ")},
}

// builtinMessages describe the stock tags the DTOs use. %s is the tag parameter.
var builtinMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func configure(v *validator.Validate) {
	for _, rule := range customRules {
		check := rule.check
		_ = v.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		})
	}
	v.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// InitValidator builds the shared validator and teaches Gin's engine the same rules.
// Both read the `binding` tag so a command validates the same way over HTTP and over Temporal.
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		configure(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configure(v)
		}
	})
	return validate
}

// ValidationErrorFormatter maps each failing field path to a readable message
func ValidationErrorFormatter(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return map[string]string{}
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e)] = describe(e)
	}
	return fields
}

// fieldPath drops the root struct name, so "DecideRequest.items[0].quantity" becomes "items[0].quantity"
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

func describe(e validator.FieldError) string {
	for _, rule := range customRules {
		if rule.tag == e.Tag() {
			return rule.message
		}
	}
	if msg, ok := builtinMessages[e.Tag()]; ok {
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, e.Param())
		}
		return msg
	}
	return "is invalid"
}

func validationFailure(err error, fallback string) *errors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return errors.ErrValidationWithFields("validation failed", ValidationErrorFormatter(verrs))
	}
	return errors.ErrBadRequest(fallback + ": " + err.Error())
}

// BindAndValidate binds the JSON body and validates it
func BindAndValidate(c *gin.Context, obj any) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		return validationFailure(err, "invalid request body")
	}
	return nil
}

// ValidateStruct validates a struct outside of a Gin request
func ValidateStruct(obj any) *errors.AppError {
	if err := InitValidator().Struct(obj); err != nil {
		return validationFailure(err, "validation failed")
	}
	return nil
}

// ContentType rejects POST/PUT/PATCH bodies that are not JSON
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "POST", "PUT", "PATCH":
			contentType := c.GetHeader("Content-Type")
			if c.Request.ContentLength > 0 && !strings.HasPrefix(contentType, "application/json") {
				AbortWithAppError(c, errors.ErrUnsupportedMediaType())
				return
			}
		}
		c.Next()
	}
}
