package evaluator

import "sync"

// NativeFunc is a host function callable from an expression tree.
// Attributes arrive as properties; positional arguments are already
// evaluated.
type NativeFunc func(ctx *Scope, attrs *Properties, args []Value) (Value, error)

// NativeTable maps receiver.name pairs to host functions. Providers
// register under a receiver namespace ("db", "fs") so unrelated
// providers never collide.
type NativeTable struct {
	mu    sync.RWMutex
	funcs map[string]NativeFunc
}

func NewNativeTable() *NativeTable {
	return &NativeTable{funcs: make(map[string]NativeFunc)}
}

func (t *NativeTable) Register(receiver, name string, fn NativeFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.funcs[receiver+"."+name] = fn
}

func (t *NativeTable) Lookup(receiver, name string) (NativeFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.funcs[receiver+"."+name]
	return fn, ok
}

// Receivers returns the distinct receiver namespaces registered.
func (t *NativeTable) Receivers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for key := range t.funcs {
		for i := 0; i < len(key); i++ {
			if key[i] == '.' {
				r := key[:i]
				if !seen[r] {
					seen[r] = true
					out = append(out, r)
				}
				break
			}
		}
	}
	return out
}
