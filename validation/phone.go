// Package validation holds custom binding validators shared by request DTOs.
package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneRegexp accepts Bahrain mobile and landline numbers, with an optional
// +973 country prefix: 3xx (Batelco), 33/34x/35x (STC), 36/37 (Zain),
// 31 (Royal Court), 66x/6500 (mobile ranges), 1xxxxxxx (landline).
var phoneRegexp = regexp.MustCompile(
	`^(\+973)?(3(20|21|22|23|80|81|82|83|84|87|88|89|9[0-9])[0-9]{5}` +
		`|33[0-9]{6}|34[0-6][0-9]{5}|35(0|1|3|4|5)[0-9]{5}` +
		`|36[0-9]{6}|37[0-9]{6}|31[0-9]{6}` +
		`|66(3|6|7|8|9)[0-9]{5}|6500[0-9]{4}|1[0-9]{7})$`)

// ValidPhone reports whether s is a well-formed regional phone number.
func ValidPhone(s string) bool {
	return phoneRegexp.MatchString(s)
}

// Register installs the custom validators on gin's binding engine. It must be
// called once before the router starts handling requests; DTO fields tagged
// `binding:"bhphone"` use it.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bhphone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
	}
}
