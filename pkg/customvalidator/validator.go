// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("inventory_number", isInventoryNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("tenant_key", isTenantKey); err != nil {
		return err
	}
	return nil
}

// Инвентарный номер: буквы, цифры, дефисы, до 100 символов.
func isInventoryNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)
	return re.MatchString(fl.Field().String())
}

// Ключ тенанта — как schema_name: латиница в нижнем регистре и подчёркивания.
func isTenantKey(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)
	return re.MatchString(fl.Field().String())
}
