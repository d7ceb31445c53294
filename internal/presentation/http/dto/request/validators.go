package request

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/receipts-api/internal/domain/enum"
)

// RegisterValidators adds the receipt specific tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("payment_method", validatePaymentMethod)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := enum.ParsePaymentMethod(fl.Field().String())
	return err == nil
}
