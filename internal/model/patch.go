package model

import (
	"sort"
	"strconv"

	"github.com/spf13/cast"
)

// fieldSetter assigns one decoded JSON value onto an entity.
type fieldSetter[T any] func(dst *T, v any) error

// applyPatch dispatches every key of patch to its setter in sorted key order.
// Keys without a setter are accepted and ignored.
func applyPatch[T any](dst *T, patch map[string]any, setters map[string]fieldSetter[T]) error {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			continue
		}
		if err := set(dst, patch[k]); err != nil {
			return err
		}
	}
	return nil
}

func requiredString(field string, v any) (string, error) {
	if v == nil {
		return "", invalid(field, "must not be null")
	}
	switch v.(type) {
	case bool, map[string]any, []any:
		return "", invalid(field, "must be a string")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalid(field, "must be a string")
	}
	return s, nil
}

func optionalString(field string, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := requiredString(field, v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func requiredInt(field string, v any) (int, error) {
	if v == nil {
		return 0, invalid(field, "must not be null")
	}
	if f, ok := v.(float64); ok && f != float64(int(f)) {
		return 0, invalid(field, "must be an integer")
	}
	switch t := v.(type) {
	case bool, map[string]any, []any:
		return 0, invalid(field, "must be an integer")
	case string:
		// Decimal only; cast would read "010" as octal and "0x10" as hex.
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil || n != int64(int(n)) {
			return 0, invalid(field, "must be an integer")
		}
		return int(n), nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, invalid(field, "must be an integer")
	}
	return n, nil
}
