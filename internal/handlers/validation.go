package handlers

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,9}$`)

// validCurrencyCode accepts upper-case codes of 3 to 10 characters, e.g. EUR, XAU, USDT.
func validCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodePattern.MatchString(fl.Field().String())
}

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		slog.Warn("Binding engine is not go-playground/validator, custom tags not registered")
		return
	}
	if err := v.RegisterValidation("currencycode", validCurrencyCode); err != nil {
		slog.Error("Failed to register currencycode validator", slog.String("error", err.Error()))
	}
}
