package validators

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// Register installs the "hhmm" and "date" tags on gin's binding validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", layout(ClockLayout)); err != nil {
		return err
	}
	return v.RegisterValidation("date", layout(DateLayout))
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(l, s)
		return err == nil
	}
}
