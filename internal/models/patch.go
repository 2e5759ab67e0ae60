package models

import (
	"time"

	"github.com/localnerve/mindsync/internal/types"
	"github.com/oapi-codegen/nullable"
)

// applyTimePtr merges an optional flexible timestamp into a nullable column
func applyTimePtr(field nullable.Nullable[types.FlexTime], dst **time.Time) {
	switch {
	case !field.IsSpecified():
	case field.IsNull():
		*dst = nil
	default:
		t := field.MustGet().Time()
		*dst = &t
	}
}

// applyTime merges an optional flexible timestamp into a required column.
// A null leaves the column untouched.
func applyTime(field nullable.Nullable[types.FlexTime], dst *time.Time) {
	if v, err := field.Get(); err == nil {
		*dst = v.Time()
	}
}

// applyIDPtr merges an optional reference id into a nullable column.
// Null and zero both clear the reference.
func applyIDPtr(field nullable.Nullable[types.FlexID], dst **uint) {
	if !field.IsSpecified() {
		return
	}
	v, err := field.Get()
	if err != nil || v == 0 {
		*dst = nil
		return
	}
	id := v.Uint()
	*dst = &id
}
