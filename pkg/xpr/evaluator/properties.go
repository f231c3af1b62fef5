package evaluator

import (
	"fmt"
	"strings"
)

// Properties is an ordered set of named attributes attached to a call.
// Order is preserved so Inspect output and encodings are deterministic.
type Properties struct {
	keys   []string
	values map[string]Value
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]Value)}
}

// Set adds or replaces an attribute. First-set order wins for iteration.
func (p *Properties) Set(key string, v Value) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

func (p *Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// GetString returns the attribute as its raw string form, or fallback.
func (p *Properties) GetString(key, fallback string) string {
	if v, ok := p.values[key]; ok {
		return v.Inspect()
	}
	return fallback
}

// GetInt returns the attribute as an int64, or fallback when absent
// or not an Integer.
func (p *Properties) GetInt(key string, fallback int64) int64 {
	if v, ok := p.values[key]; ok {
		if n, ok := v.(*Integer); ok {
			return n.Value
		}
	}
	return fallback
}

func (p *Properties) Len() int {
	return len(p.keys)
}

func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Each calls fn for every attribute in insertion order.
func (p *Properties) Each(fn func(key string, v Value)) {
	for _, k := range p.keys {
		fn(k, p.values[k])
	}
}

func (p *Properties) Clone() *Properties {
	out := NewProperties()
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

func (p *Properties) String() string {
	if p == nil || len(p.keys) == 0 {
		return ""
	}
	parts := make([]string, len(p.keys))
	for i, k := range p.keys {
		parts[i] = fmt.Sprintf("%s: %s", k, p.values[k].String())
	}
	return strings.Join(parts, ", ")
}
