package formats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/stream"
)

// registry holds every registered handler.
var registry = struct {
	sync.RWMutex
	byName map[string]Handler
	byExt  map[string]Handler
}{
	byName: make(map[string]Handler),
	byExt:  make(map[string]Handler),
}

// Register adds h under its name and extensions. Registering a name or an
// extension twice panics.
func Register(h Handler) {
	d := h.Descriptor()
	name := strings.ToLower(d.Name)

	registry.Lock()
	defer registry.Unlock()

	if _, dup := registry.byName[name]; dup {
		panic(fmt.Sprintf("formats: duplicate registration of %q", d.Name))
	}
	for _, ext := range d.Extensions {
		ext = strings.ToLower(ext)
		if prev, dup := registry.byExt[ext]; dup {
			panic(fmt.Sprintf("formats: extension %s claimed by %q and %q", ext, prev.Descriptor().Name, d.Name))
		}
	}
	registry.byName[name] = h
	for _, ext := range d.Extensions {
		registry.byExt[strings.ToLower(ext)] = h
	}
}

// Lookup returns the handler registered under name.
func Lookup(name string) (Handler, error) {
	registry.RLock()
	defer registry.RUnlock()

	if h, ok := registry.byName[strings.ToLower(name)]; ok {
		return h, nil
	}
	return nil, errors.NewFormatUnknown(name)
}

// LookupExtension returns the handler for a two-part extension (".rel.phy")
// or, failing that, a one-part extension (".phy").
func LookupExtension(twoPart, onePart string) (Handler, error) {
	registry.RLock()
	defer registry.RUnlock()

	if twoPart != "" {
		if h, ok := registry.byExt[strings.ToLower(twoPart)]; ok {
			return h, nil
		}
	}
	if onePart != "" {
		if h, ok := registry.byExt[strings.ToLower(onePart)]; ok {
			return h, nil
		}
	}
	name := twoPart
	if name == "" {
		name = onePart
	}
	return nil, errors.NewFormatUnknown(name)
}

// SplitExt returns the two-part and one-part extensions of a file name:
// "abc.fas.gb.gz" gives (".gb.gz", ".gz"). A leading dot does not start an
// extension.
func SplitExt(path string) (twoPart, onePart string) {
	base := filepath.Base(path)
	stem, one := splitOnce(base)
	_, two := splitOnce(stem)
	return two + one, one
}

func splitOnce(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

// ForPath resolves a handler from a file name. For compressed names the raw
// two-part extension is tried first (".fastq.gz"), then the extensions of
// the name without its compression suffix, then the raw one-part extension.
func ForPath(path string) (Handler, error) {
	twoPart, onePart := SplitExt(path)
	if suffix := stream.Compression(path); suffix != "" {
		if h, err := LookupExtension(twoPart, ""); err == nil {
			return h, nil
		}
		inner := path[:len(path)-len(suffix)]
		if h, err := LookupExtension(SplitExt(inner)); err == nil {
			return h, nil
		}
		if h, err := LookupExtension("", onePart); err == nil {
			return h, nil
		}
		return nil, errors.NewFormatUnknown(twoPart)
	}
	return LookupExtension(twoPart, onePart)
}

// Resolve returns the handler named name, or the one matching path when
// name is empty.
func Resolve(name, path string) (Handler, error) {
	if name != "" {
		return Lookup(name)
	}
	if path == "" {
		return nil, errors.NewFormatUnknown("")
	}
	return ForPath(path)
}

// List returns every registered handler sorted by name.
func List() []Handler {
	registry.RLock()
	defer registry.RUnlock()

	out := make([]Handler, 0, len(registry.byName))
	for _, h := range registry.byName {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor().Name < out[j].Descriptor().Name
	})
	return out
}
