package v1

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// E.164-style phone numbers, the only non-email identifier accepted.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("identifier", validIdentifier)
	}
}

// validIdentifier accepts an email address or a phone number.
func validIdentifier(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	if strings.Contains(s, "@") {
		err := binding.Validator.Engine().(*validator.Validate).Var(s, "email")
		return err == nil
	}
	return phonePattern.MatchString(s)
}
