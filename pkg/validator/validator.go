package validator

import (
	"errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"strings"
	"sync"
)

var (
	once     sync.Once
	uni      *ut.UniversalTranslator
	fallback = "en"
)

// LazyInitGinValidator 给 gin 的校验器注册中英文翻译，lang 为默认语言
func LazyInitGinValidator(lang string) {
	once.Do(func() {
		uni = ut.New(en.New(), en.New(), zh.New())
		if lang == "zh" {
			fallback = "zh"
		}

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if trans, found := uni.GetTranslator("en"); found {
			_ = enTranslations.RegisterDefaultTranslations(v, trans)
		}
		if trans, found := uni.GetTranslator("zh"); found {
			_ = zhTranslations.RegisterDefaultTranslations(v, trans)
		}
	})
}

// Translate 把校验错误翻译成一句话，lang 为空时使用默认语言
func Translate(err error, lang string) string {
	var errs validator.ValidationErrors
	if uni == nil || !errors.As(err, &errs) {
		return err.Error()
	}
	if lang == "" {
		lang = fallback
	}
	trans, _ := uni.FindTranslator(strings.ToLower(lang), fallback)

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
