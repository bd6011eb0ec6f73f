package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// idNamespace seeds the name-based UUIDs minted for non-UUID record ids.
var idNamespace = uuid.MustParse("6f1c3f0e-8a53-4b55-9a3e-0f4f5d7c2a11")

// wireID accepts a record id sent either as a JSON number or a string.
type wireID string

func (w *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*w = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*w = wireID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*w = wireID(n.String())
	return nil
}

// idRegistry translates record ids to UUIDs and remembers the original form for
// outbound calls. UUID ids map to themselves; anything else gets a stable
// name-based UUID scoped by resource.
type idRegistry struct {
	mu  sync.RWMutex
	raw map[uuid.UUID]string
}

func newIDRegistry() *idRegistry {
	return &idRegistry{raw: make(map[uuid.UUID]string)}
}

func (r *idRegistry) canonical(resource string, raw wireID) (uuid.UUID, error) {
	s := string(raw)
	if s == "" {
		return uuid.Nil, fmt.Errorf("%s record without id", resource)
	}

	id, err := uuid.Parse(s)
	if err != nil {
		id = uuid.NewSHA1(idNamespace, []byte(resource+":"+s))
	}

	r.mu.Lock()
	r.raw[id] = s
	r.mu.Unlock()
	return id, nil
}

func (r *idRegistry) optional(resource string, raw wireID) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := r.canonical(resource, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// wire returns the id as the record store knows it.
func (r *idRegistry) wire(id uuid.UUID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if raw, ok := r.raw[id]; ok {
		return raw
	}
	return id.String()
}

// wireValue returns the id in the JSON type the store used for it: numeric ids
// go back as numbers.
func (r *idRegistry) wireValue(id uuid.UUID) interface{} {
	raw := r.wire(id)
	n := json.Number(raw)
	if _, err := n.Int64(); err == nil {
		return n
	}
	return raw
}
