package util

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/biqiaoran629/developerconnector/config"
)

// ValidatePostLength 验证文本长度不超过配置的上限
func ValidatePostLength(fl validator.FieldLevel) bool {
	text, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utf8.RuneCountInString(text) <= config.AppConfig.MaxPostLength
}
