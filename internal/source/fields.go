package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/outfit/internal/model"
)

// fields is a JSON object kept as entries in the order the log wrote them.
// Numbers decoded into any stay json.Number, so their text is preserved.
// A repeated key keeps its first position and its last value, like a map.
type fields[V any] []model.KV[V]

func (f *fields[V]) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	var out []model.KV[V]
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected a key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if i, dup := seen[key]; dup {
			out[i].Value = v
			continue
		}
		seen[key] = len(out)
		out = append(out, model.KV[V]{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}
