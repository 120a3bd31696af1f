// Package validation registers the custom rules used in request binding
// tags on gin's validator engine.
package validation

import (
	"reflect"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MinPhoneDigits is the shortest phone number accepted at checkout.
const MinPhoneDigits = 8

var once sync.Once

// Register installs the rules once per process:
//   - decimal.Decimal fields validate as float64, so gt/gte/lte apply to prices;
//   - "phone" accepts strings holding at least MinPhoneDigits digits.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("phone", phone)
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func phone(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= MinPhoneDigits
}
