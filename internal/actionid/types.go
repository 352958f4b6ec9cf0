package actionid

import (
	"maps"
	"sort"
	"strings"
)

// Qualifiers is an unordered set of key/value discriminators.
type Qualifiers map[string]string

// Keys returns the qualifier keys in sorted order.
func (q Qualifiers) Keys() []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subset reports whether every pair of q is present in other.
func (q Qualifiers) Subset(other Qualifiers) bool {
	for k, v := range q {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold exactly the same pairs.
func (q Qualifiers) Equal(other Qualifiers) bool {
	return len(q) == len(other) && q.Subset(other)
}

// String renders the set as `k1=v1,k2=v2` with keys sorted.
func (q Qualifiers) String() string {
	var sb strings.Builder
	for i, k := range q.Keys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(q[k])
	}
	return sb.String()
}

// ID is the identity of an action within one resolution run.
type ID struct {
	Name       string
	Qualifiers Qualifiers
}

// New builds an ID, copying the qualifier map so the caller keeps ownership
// of its argument.
func New(name string, qualifiers map[string]string) ID {
	var q Qualifiers
	if len(qualifiers) > 0 {
		q = maps.Clone(qualifiers)
	}
	return ID{Name: name, Qualifiers: q}
}

// Key is the canonical string form of the ID. It is stable across runs and
// suitable as a map key.
func (id ID) Key() string {
	if len(id.Qualifiers) == 0 {
		return id.Name
	}
	return id.Name + "[" + id.Qualifiers.String() + "]"
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Key()
}

// Equal checks name and qualifier equality.
func (id ID) Equal(other ID) bool {
	return id.Name == other.Name && id.Qualifiers.Equal(other.Qualifiers)
}

// IsZero reports whether the ID has no name.
func (id ID) IsZero() bool {
	return id.Name == ""
}
