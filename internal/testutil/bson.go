// Package testutil evaluates Mongo filters against in-memory documents so
// fake repositories can honour the filters services build.
package testutil

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// Matches reports whether doc satisfies filter. Equality, $in, $ne, $and and
// $or are supported; anything else panics so a test never passes silently.
func Matches(doc any, filter bson.M) bool {
	return match(toMap(doc), filter)
}

// Apply merges a $set style update into doc, which must be a pointer.
func Apply(doc any, updates bson.M) error {
	m := toMap(doc)
	for k, v := range updates {
		m[k] = v
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(doc)
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	return bson.Unmarshal(raw, doc)
}

func toMap(doc any) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func match(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$and":
			for _, sub := range asList(cond) {
				if !match(doc, asMap(sub)) {
					return false
				}
			}
		case "$or":
			matched := false
			for _, sub := range asList(cond) {
				if match(doc, asMap(sub)) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			if !matchField(doc[key], cond) {
				return false
			}
		}
	}
	return true
}

func matchField(value, cond any) bool {
	ops, ok := cond.(bson.M)
	if !ok {
		return equal(value, cond)
	}
	for op, arg := range ops {
		switch op {
		case "$in":
			found := false
			for _, candidate := range asList(arg) {
				if equal(value, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$ne":
			if equal(value, arg) {
				return false
			}
		default:
			panic("testutil: unsupported operator " + op)
		}
	}
	return true
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asList(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		panic(fmt.Sprintf("testutil: expected a list, got %T", v))
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func asMap(v any) bson.M {
	switch t := v.(type) {
	case bson.M:
		return t
	case map[string]any:
		return bson.M(t)
	}
	panic(fmt.Sprintf("testutil: expected a document, got %T", v))
}
