package repository

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm/schema"
)

func init() {
	schema.RegisterSerializer("millis", MillisSerializer{})
}

// MillisSerializer stores time.Time and *time.Time fields as integer milliseconds since epoch.
type MillisSerializer struct{}

// Scan implements schema.SerializerInterface.
func (MillisSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	target := field.ReflectValueOf(ctx, dst)
	if dbValue == nil {
		target.Set(reflect.Zero(field.FieldType))
		return nil
	}

	var ms int64
	switch v := dbValue.(type) {
	case int64:
		ms = v
	case int:
		ms = int64(v)
	case int32:
		ms = int64(v)
	case float64:
		ms = int64(v)
	case time.Time:
		ms = v.UnixMilli()
	default:
		return fmt.Errorf("millis: unsupported db value %T for %s", dbValue, field.Name)
	}

	t := time.UnixMilli(ms)
	if field.FieldType.Kind() == reflect.Ptr {
		target.Set(reflect.ValueOf(&t))
	} else {
		target.Set(reflect.ValueOf(t))
	}
	return nil
}

// Value implements schema.SerializerValuerInterface.
func (MillisSerializer) Value(_ context.Context, field *schema.Field, _ reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case time.Time:
		return v.UnixMilli(), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.UnixMilli(), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("millis: unsupported field value %T for %s", fieldValue, field.Name)
	}
}
