// Package compressor provides named compression codecs writing into
// resizable buffers. Codecs register by name; "none" is the identity
// codec.
package compressor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fmahebert/eckit/pkg/buffer"
)

// Compressor compresses and uncompresses byte slices into a buffer.
// Both directions return the number of bytes produced.
type Compressor interface {
	Compress(src []byte, dst *buffer.Buffer) (int, error)
	Uncompress(src []byte, dst *buffer.Buffer) (int, error)
}

var (
	mu     sync.RWMutex
	codecs = make(map[string]Compressor)
)

// Register installs a codec under a name, replacing any previous one.
func Register(name string, c Compressor) {
	mu.Lock()
	defer mu.Unlock()
	codecs[name] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Compressor, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown compressor %q (have %v)", name, namesLocked())
	}
	return c, nil
}

// Names lists the registered codec names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// none copies input to output unchanged.
type none struct{}

func (none) Compress(src []byte, dst *buffer.Buffer) (int, error) {
	dst.Reset()
	return dst.Write(src)
}

func (none) Uncompress(src []byte, dst *buffer.Buffer) (int, error) {
	dst.Reset()
	return dst.Write(src)
}

func init() {
	Register("none", none{})
}
