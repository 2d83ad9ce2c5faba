package frecency

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/errors"
)

// DefaultIDAttribute is the field read when no extractor is configured.
const DefaultIDAttribute = "_id"

// IDExtractor names how a result's id is read: either a field name or a
// function. The zero value reads DefaultIDAttribute.
type IDExtractor[T any] struct {
	field  string
	fn     func(T) string
	byFunc bool
}

// ByField reads the id from a map key or struct field named field. Struct
// fields match on their json tag first, then on their Go name.
func ByField[T any](field string) IDExtractor[T] {
	return IDExtractor[T]{field: field}
}

// ByFunc reads the id with fn.
func ByFunc[T any](fn func(T) string) IDExtractor[T] {
	return IDExtractor[T]{fn: fn, byFunc: true}
}

func (e IDExtractor[T]) resolve() (func(T) string, error) {
	if e.byFunc {
		if e.fn == nil {
			return nil, apperrors.New(apperrors.ErrConfiguration, "frecency.IDExtractor", "nil id function")
		}
		return e.fn, nil
	}
	field := e.field
	if field == "" {
		field = DefaultIDAttribute
	}
	if strings.TrimSpace(field) == "" {
		return nil, apperrors.New(apperrors.ErrConfiguration, "frecency.IDExtractor", "empty id attribute")
	}
	return func(result T) string {
		return fieldValue(reflect.ValueOf(result), field)
	}, nil
}

func fieldValue(v reflect.Value, field string) string {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return ""
		}
		return formatID(v.MapIndex(reflect.ValueOf(field).Convert(v.Type().Key())))
	case reflect.Struct:
		t := v.Type()
		byName := -1
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name == field {
				return formatID(v.Field(i))
			}
			if byName < 0 && f.Name == field {
				byName = i
			}
		}
		if byName >= 0 {
			return formatID(v.Field(byName))
		}
	}
	return ""
}

func formatID(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		if !v.CanInterface() {
			return ""
		}
		return fmt.Sprint(v.Interface())
	}
}
