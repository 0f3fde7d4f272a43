package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Struct: İstek gövdesini mutasyon başlamadan önce doğrular; hatalı alanları
// tek bir okunabilir mesajda toplar.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, fmt.Sprintf("%s zorunlu", fe.Field()))
		case "gt":
			fields = append(fields, fmt.Sprintf("%s %s'den büyük olmalı", fe.Field(), fe.Param()))
		case "min":
			fields = append(fields, fmt.Sprintf("%s en az %s olmalı", fe.Field(), fe.Param()))
		case "oneof":
			fields = append(fields, fmt.Sprintf("%s geçersiz değer", fe.Field()))
		default:
			fields = append(fields, fmt.Sprintf("%s geçersiz", fe.Field()))
		}
	}

	return fiber.NewError(fiber.StatusBadRequest, strings.Join(fields, ", "))
}
