package types

import "github.com/oapi-codegen/nullable"

// Partial updates decode each field into a nullable.Nullable, which tells an
// absent key (unspecified), an explicit null and a value apart.

// ApplyValue overwrites dst when the field was supplied with a non-null value
func ApplyValue[T any](field nullable.Nullable[T], dst *T) {
	if v, err := field.Get(); err == nil {
		*dst = v
	}
}

// ApplyPtr overwrites a nullable dst; an explicit null clears it
func ApplyPtr[T any](field nullable.Nullable[T], dst **T) {
	switch {
	case !field.IsSpecified():
	case field.IsNull():
		*dst = nil
	default:
		v := field.MustGet()
		*dst = &v
	}
}
