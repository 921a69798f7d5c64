package sequtil

import "strconv"

// Unicifier makes identifiers pairwise distinct within one output file.
//
// An unbounded Unicifier passes the first occurrence of a name through and
// appends "_<n>" to later ones. A bounded Unicifier always appends a
// zero-based running number, truncating the name so that the result never
// exceeds the limit.
type Unicifier struct {
	limit   int
	count   int
	seen    map[string]int
	emitted map[string]struct{}
	renamed int
}

// NewUnicifier returns an unbounded Unicifier.
func NewUnicifier() *Unicifier {
	return &Unicifier{
		seen:    make(map[string]int),
		emitted: make(map[string]struct{}),
	}
}

// NewBoundedUnicifier returns a Unicifier whose results are at most limit
// characters long.
func NewBoundedUnicifier(limit int) *Unicifier {
	return &Unicifier{limit: limit}
}

// Unique returns a name derived from name that was not returned before.
func (u *Unicifier) Unique(name string) string {
	if u.limit > 0 {
		return u.bounded(name)
	}
	candidate := name
	n, dup := u.seen[name]
	for {
		if dup {
			n++
			candidate = name + "_" + strconv.Itoa(n)
		}
		if _, taken := u.emitted[candidate]; !taken {
			break
		}
		dup = true
	}
	u.seen[name] = n
	u.emitted[candidate] = struct{}{}
	if candidate != name {
		u.renamed++
	}
	return candidate
}

func (u *Unicifier) bounded(name string) string {
	suffix := strconv.Itoa(u.count)
	u.count++
	if len(suffix) >= u.limit {
		return suffix[len(suffix)-u.limit:]
	}
	runes := []rune(name)
	if keep := u.limit - len(suffix); len(runes) > keep {
		runes = runes[:keep]
	}
	result := string(runes) + suffix
	if result != name {
		u.renamed++
	}
	return result
}

// Renamed returns how many results differed from their input.
func (u *Unicifier) Renamed() int {
	return u.renamed
}
