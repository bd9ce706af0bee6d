package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("deadtime_code", isDeadTimeCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("sheet_number", isSheetNumber); err != nil {
		return err
	}
	return nil
}

// isDeadTimeCode - коды простоя вида "NO_MATERIAL", "MACHINE_REPAIR"
func isDeadTimeCode(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)
	return re.MatchString(fl.Field().String())
}

// isSheetNumber - номер производственного листа, печатается на бланке
func isSheetNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[0-9A-Za-z./-]{1,32}$`)
	return re.MatchString(fl.Field().String())
}
