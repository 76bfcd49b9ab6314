package cache

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache values are serialized with msgpack: compact, fast, and schema-free.
// The wire shape is internal to the cache store; a codec change only costs a
// round of misses, never correctness.

func marshalValue(value interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal cache value: %w", err)
	}
	return data, nil
}

func unmarshalValue(data []byte, target interface{}) error {
	if err := msgpack.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal cache value: %w", err)
	}
	return nil
}
