package schema

import (
	"fmt"
	"strings"
)

// Key returns a canonical key for the entity list, e.g. "host=a|region=us".
// Two lists with the same pairs in the same order share a key.
func (l EntityList) Key() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Name + "=" + e.Value
	}
	return strings.Join(parts, "|")
}

// Label formats the entity list for display, e.g. "a / us".
func (l EntityList) Label() string {
	values := make([]string, len(l))
	for i, e := range l {
		values[i] = e.Value
	}
	return strings.Join(values, " / ")
}

// Matches reports whether every entity in filter is present in l.
// An empty filter matches everything.
func (l EntityList) Matches(filter EntityList) bool {
	for _, f := range filter {
		found := false
		for _, e := range l {
			if e.Name == f.Name && e.Value == f.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share the backing array.
func (l EntityList) Clone() EntityList {
	if l == nil {
		return nil
	}
	out := make(EntityList, len(l))
	copy(out, l)
	return out
}

// ParseEntity parses a "field=value" pair.
func ParseEntity(s string) (Entity, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return Entity{}, fmt.Errorf("invalid entity %q: expected field=value", s)
	}
	return Entity{Name: name, Value: value}, nil
}

// ParseEntityList parses a list of "field=value" pairs, rejecting repeated fields.
func ParseEntityList(pairs []string) (EntityList, error) {
	var list EntityList
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		e, err := ParseEntity(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("entity field %q given more than once", e.Name)
		}
		seen[e.Name] = struct{}{}
		list = append(list, e)
	}
	return list, nil
}

// ParseFieldValues parses "field=v1,v2". A bare "field" yields no values,
// which means the values should be discovered from the source.
func ParseFieldValues(s string) (FieldValues, error) {
	name, rest, _ := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return FieldValues{}, fmt.Errorf("invalid child field %q: expected field=v1,v2", s)
	}
	fv := FieldValues{Name: name}
	for v := range strings.SplitSeq(rest, ",") {
		if v = strings.TrimSpace(v); v != "" {
			fv.Values = append(fv.Values, v)
		}
	}
	return fv, nil
}
