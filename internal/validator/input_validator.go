package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 入力DTOの構造体バリデーション。違反は最初の1件で止めず全フィールド分集める
type InputValidator struct {
	validate *validator.Validate
}

func New() *InputValidator {
	v := validator.New()

	//エラーのキーはjsonタグ名に揃える
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &InputValidator{validate: v}
}

// StructFieldsはフィールド名→メッセージのまとまりを返す。違反なしなら空
func (iv *InputValidator) StructFields(s interface{}) map[string]string {
	fields := map[string]string{}

	err := iv.validate.Struct(s)
	if err == nil {
		return fields
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["input"] = "invalid input"
		return fields
	}

	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = "is required"
		case "email":
			fields[e.Field()] = "must be a valid email address"
		case "max":
			fields[e.Field()] = "must be at most " + e.Param()
		case "min":
			fields[e.Field()] = "must be at least " + e.Param()
		case "gte":
			fields[e.Field()] = "must be greater than or equal to " + e.Param()
		case "gt":
			fields[e.Field()] = "must be greater than " + e.Param()
		case "oneof":
			fields[e.Field()] = "must be one of " + e.Param()
		default:
			fields[e.Field()] = "is invalid"
		}
	}

	return fields
}
