package load

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalSnapshot encodes the snapshot to its JSON interchange form, the
// format the declaration layer writes and the CLI reads.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return json.Marshal(s.models)
}

// UnmarshalSnapshot decodes a JSON interchange buffer into a snapshot.
func UnmarshalSnapshot(buf []byte) (*Snapshot, error) {
	var models []*Model
	if err := json.Unmarshal(buf, &models); err != nil {
		return nil, fmt.Errorf("load: unmarshal snapshot: %w", err)
	}
	normalize(models)
	return NewSnapshot(models...), nil
}

// EncodeCache encodes the snapshot in its compact msgpack cache form.
// The cache is a performance shortcut for repeated runs over the same
// snapshot; it carries exactly the interchange content.
func EncodeCache(s *Snapshot) ([]byte, error) {
	return msgpack.Marshal(s.models)
}

// DecodeCache decodes a msgpack cache buffer into a snapshot.
func DecodeCache(buf []byte) (*Snapshot, error) {
	var models []*Model
	if err := msgpack.Unmarshal(buf, &models); err != nil {
		return nil, fmt.Errorf("load: decode snapshot cache: %w", err)
	}
	normalize(models)
	return NewSnapshot(models...), nil
}

// normalize re-types default values that lost their Go type during
// decoding. Only the shapes the builder recognizes are restored; anything
// else stays as decoded and falls through extraction as "no default".
func normalize(models []*Model) {
	for _, m := range models {
		for _, p := range m.Properties {
			p.Default = normalizeDefault(p.Default)
		}
	}
}

func normalizeDefault(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	enum, ok := stringKey(m, "enum", "Enum")
	if !ok {
		return v
	}
	member, ok := stringKey(m, "member", "Member")
	if !ok {
		return v
	}
	return EnumMember{Enum: enum, Member: member}
}

// stringKey looks a string value up under any of the given keys. JSON and
// msgpack disagree on the key casing of re-decoded values.
func stringKey(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
