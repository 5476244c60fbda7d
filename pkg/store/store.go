package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DTO is anything the datastore can persist: a struct with db tags whose
// ToModel returns the saved model once the row id is known.
type DTO interface {
	ToModel(id string) any
}

// This type of hook separates from the regular PostSave hook since it has side effects
type AfterSaveCommitHook func()

// Hooks for database operations
type Hooks struct {
	PreSave         []func(ctx context.Context, tx *sqlx.Tx, data DTO, isNew bool) error
	PostSave        []func(ctx context.Context, tx *sqlx.Tx, data DTO, model any, isNew bool) error
	PreDelete       []func(ctx context.Context, tx *sqlx.Tx, id string) error
	PostDelete      []func(ctx context.Context, tx *sqlx.Tx, id string) error
	AfterSaveCommit []func(ctx context.Context, data DTO, model any, isNew bool) AfterSaveCommitHook
}

// Datastorer is the repository contract the services are written against.
// Record ids are opaque strings assigned by the caller, never reused.
type Datastorer[T any] interface {
	Create(ctx context.Context, data DTO) (any, error)
	Update(ctx context.Context, id string, data DTO) (any, error)
	Delete(ctx context.Context, id string) error
	QueryRow(ctx context.Context, query string, args ...any) (any, error)
	Get(ctx context.Context, query string, args ...any) (*T, error)
	Select(ctx context.Context, query string, args ...any) ([]T, error)

	// WARN: DeleteWhere does not yet support hooks execution.
	DeleteWhere(ctx context.Context, column string, value any) error

	// WARN: BulkUpdate does not run hooks.
	BulkUpdate(ctx context.Context, query string, args ...any) error
	// Set hooks.
	SetHooks(hooks Hooks)

	// useful for complex operations wherein store interface does not supported.
	Base() *sqlx.DB
}

var valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()

// isJSONColumn reports whether a field marshals itself for storage (a
// driver.Valuer such as models.QuestionList). Those columns are jsonb, not
// Postgres arrays.
func isJSONColumn(t reflect.Type) bool {
	return t.Implements(valuerType) || reflect.PointerTo(t).Implements(valuerType)
}

func pgArrayType(elem reflect.Kind) string {
	switch elem {
	case reflect.String:
		return "text[]"
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "integer[]"
	case reflect.Float32, reflect.Float64:
		return "float[]"
	case reflect.Bool:
		return "boolean[]"
	default:
		return "text[]"
	}
}

func getStructFieldNamesFromInstance(instance any) []string {
	typ := reflect.TypeOf(instance)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	var fields []string

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		dbTag := field.Tag.Get("db")

		if dbTag != "" && dbTag != "-" {
			fields = append(fields, dbTag)
		}
	}

	return fields
}

// getStructFieldsFromDTO extracts column names and named placeholders from a
// DTO struct.
func getStructFieldsFromDTO(dto DTO) (columns string, placeholders string) {
	t := reflect.TypeOf(dto)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var columnNames []string
	var placeholderNames []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		columnNames = append(columnNames, dbTag)

		switch {
		case isJSONColumn(field.Type):
			placeholderNames = append(placeholderNames, fmt.Sprintf("CAST(:%s AS jsonb)", dbTag))
		case field.Type.Kind() == reflect.Slice:
			placeholderNames = append(placeholderNames, fmt.Sprintf("CAST(:%s AS %s)", dbTag, pgArrayType(field.Type.Elem().Kind())))
		default:
			placeholderNames = append(placeholderNames, ":"+dbTag)
		}
	}

	return strings.Join(columnNames, ", "), strings.Join(placeholderNames, ", ")
}

// getNonEmptyFieldsFromDTO builds the SET clause for an update, skipping
// zero-value fields so a partial patch never clobbers columns it does not
// carry.
func getNonEmptyFieldsFromDTO(dto DTO, params map[string]any) string {
	v := reflect.ValueOf(dto)
	t := reflect.TypeOf(dto)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
		t = t.Elem()
	}

	var fields []string

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		columnName := field.Tag.Get("db")
		if columnName == "-" {
			continue
		}
		if columnName == "" {
			columnName = strings.ToLower(field.Name)
		}

		// Skip untouched fields.
		if value.Kind() == reflect.Ptr && value.IsNil() ||
			value.Kind() == reflect.String && value.String() == "" ||
			value.Kind() == reflect.Slice && value.IsNil() {
			continue
		}

		switch {
		case isJSONColumn(field.Type):
			fields = append(fields, fmt.Sprintf("%s = CAST(:%s AS jsonb)", columnName, columnName))
		case field.Type.Kind() == reflect.Slice:
			fields = append(fields, fmt.Sprintf("%s = CAST(:%s AS %s)", columnName, columnName, pgArrayType(field.Type.Elem().Kind())))
		default:
			fields = append(fields, fmt.Sprintf("%s = :%s", columnName, columnName))
		}
		params[columnName] = value.Interface()
	}

	return strings.Join(fields, ", ")
}
