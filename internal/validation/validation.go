// Пакет validation — разбор и проверка JSON-документа заявки о перевале.
// Правила описаны тегами validate в model.Submission и проверяются
// go-playground/validator. Возвращается первое нарушенное ограничение.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fstr/pereval-api/internal/domain/model"
)

// ErrValidation — некорректный или неполный входной документ.
var ErrValidation = errors.New("validation error")

// AddTimePattern — человекочитаемый формат add_time для сообщений об ошибках.
const AddTimePattern = "YYYY-MM-DD HH:MM:SS"

// tagDatetime — пользовательское правило проверки add_time.
const tagDatetime = "pereval_datetime"

// FieldError — нарушение ограничения на конкретном поле.
type FieldError struct {
	// Field — путь к полю в нотации JSON (user.email, images[0].title)
	Field string
	// Rule — сработавшее правило (required, email, base64)
	Rule string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("field '%s' is required", e.Field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email address", e.Field)
	case "base64":
		return fmt.Sprintf("field '%s' must be base64-encoded", e.Field)
	default:
		return fmt.Sprintf("field '%s' failed rule '%s'", e.Field, e.Rule)
	}
}

// Is позволяет сопоставлять ошибку с ErrValidation.
func (e *FieldError) Is(target error) bool { return target == ErrValidation }

// FormatError — значение не соответствует ожидаемому формату.
type FormatError struct {
	// Field — путь к полю
	Field string
	// Pattern — ожидаемый формат
	Pattern string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format of '%s': expected %s", e.Field, e.Pattern)
}

// Is позволяет сопоставлять ошибку с ErrValidation.
func (e *FormatError) Is(target error) bool { return target == ErrValidation }

// validate — общий экземпляр валидатора (потокобезопасен, кэширует описание структур).
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках — как в JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// add_time: строго YYYY-MM-DD HH:MM:SS. time.Parse пропускает дробные
	// секунды после поля секунд, поэтому значение сверяется с форматированным.
	_ = v.RegisterValidation(tagDatetime, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		t, err := time.Parse(model.AddTimeLayout, value)
		return err == nil && t.Format(model.AddTimeLayout) == value
	})

	return v
}

// Parse разбирает JSON-документ заявки и проверяет его.
// Возвращает заявку или ошибку, совместимую с ErrValidation.
func Parse(data []byte) (*model.Submission, error) {
	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, decodeError(err)
	}

	if err := Validate(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Validate проверяет уже декодированную заявку.
func Validate(sub *model.Submission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Первое нарушенное ограничение (порядок полей в структуре)
	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	if fe.Tag() == tagDatetime {
		return &FormatError{Field: field, Pattern: AddTimePattern}
	}
	return &FieldError{Field: field, Rule: fe.Tag()}
}

// fieldPath убирает имя корневой структуры из namespace валидатора:
// "Submission.user.email" → "user.email".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// decodeError переводит ошибки encoding/json в ошибки валидации.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return fmt.Errorf("%w: request body must be a JSON object", ErrValidation)
		}
		return fmt.Errorf("%w: field '%s' must be %s", ErrValidation, typeErr.Field, jsonKind(typeErr.Type))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: invalid JSON at offset %d", ErrValidation, syntaxErr.Offset)
	}

	return fmt.Errorf("%w: invalid JSON: %v", ErrValidation, err)
}

// jsonKind возвращает название JSON-типа для Go-типа поля.
func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "of type " + t.String()
	}
}
