package middleware

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"prefect-crm/internal/model"
)

var setupOnce sync.Once

// SetupValidator 为 gin 绑定注册业务枚举校验标签：
// crm_source / crm_intention / crm_class_type / crm_attendance / crm_score
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// 错误信息中使用 json 字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		_ = v.RegisterValidation("crm_source", choiceValidator(func(n int) bool { return model.CustomerSource(n).Valid() }))
		_ = v.RegisterValidation("crm_intention", choiceValidator(func(n int) bool { return model.Intention(n).Valid() }))
		_ = v.RegisterValidation("crm_class_type", choiceValidator(func(n int) bool { return model.ClassType(n).Valid() }))
		_ = v.RegisterValidation("crm_attendance", choiceValidator(func(n int) bool { return model.Attendance(n).Valid() }))
		_ = v.RegisterValidation("crm_score", choiceValidator(func(n int) bool { return model.Score(n).Valid() }))
	})
}

func choiceValidator(valid func(int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return valid(int(f.Int()))
		default:
			return false
		}
	}
}
