// Package casing rewrites the keys of JSON-shaped trees between the backend's snake_case
// and the console's camelCase naming.
//
// A tree is any value produced by decoding JSON into an interface{}: map[string]any,
// []any, or a scalar. Conversions never mutate their input.
package casing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ToCamel converts a snake_case key to camelCase. Only an underscore followed by a
// lowercase ASCII letter is folded, so "post_2" and "_id" keep their underscores.
func ToCamel(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' && i+1 < len(key) && isLower(key[i+1]) {
			b.WriteByte(key[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToSnake converts a camelCase key to snake_case by prefixing every uppercase ASCII
// letter with an underscore and lowering it.
func ToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUpper(c) {
			b.WriteByte('_')
			b.WriteByte(c - 'A' + 'a')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Camelize returns a copy of tree with every object key converted by ToCamel.
func Camelize(tree any) any {
	return rewrite(tree, ToCamel)
}

// Snakify returns a copy of tree with every object key converted by ToSnake.
func Snakify(tree any) any {
	return rewrite(tree, ToSnake)
}

func rewrite(tree any, convert func(string) string) any {
	switch v := tree.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[convert(key)] = rewrite(value, convert)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = rewrite(value, convert)
		}
		return out
	default:
		return tree
	}
}

// ToTree turns v into a generic tree by round-tripping it through encoding/json.
// Numbers are kept as json.Number so ids survive unchanged.
func ToTree(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("[casing ToTree] marshal: %w", err)
	}
	return Decode(data)
}

// FromTree decodes a generic tree into out, which must be a pointer.
func FromTree(tree any, out any) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("[casing FromTree] marshal: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[casing FromTree] unmarshal: %w", err)
	}
	return nil
}

// Decode parses JSON into a generic tree using json.Number for numbers.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("[casing Decode] %w", err)
	}
	return tree, nil
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
