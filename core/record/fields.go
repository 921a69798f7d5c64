package record

// FieldList is the ordered list of field names a reader produces alongside
// its records. Column-oriented writers use the order; the others only use
// membership.
type FieldList []string

// Contains reports whether name is in the list.
func (f FieldList) Contains(name string) bool {
	return f.Index(name) >= 0
}

// Index returns the position of name, or -1.
func (f FieldList) Index(name string) int {
	for i, n := range f {
		if n == name {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy.
func (f FieldList) Clone() FieldList {
	return append(FieldList(nil), f...)
}

// Without returns a copy with every occurrence of the given names removed.
func (f FieldList) Without(names ...string) FieldList {
	out := make(FieldList, 0, len(f))
	for _, n := range f {
		drop := false
		for _, x := range names {
			if n == x {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, n)
		}
	}
	return out
}

// Standard is the field list of formats that only carry an identifier and a sequence.
func Standard() FieldList {
	return FieldList{FieldSeqID, FieldSequence}
}
