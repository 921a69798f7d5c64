package formats

import (
	"io"

	"github.com/FocuswithJustin/seqconvert/core/record"
)

// Iterator adapts a pull function to Records. The function returns io.EOF
// once the source is exhausted.
type Iterator struct {
	next func() (*record.Record, error)
	cur  *record.Record
	err  error
	done bool
}

// NewIterator wraps next.
func NewIterator(next func() (*record.Record, error)) *Iterator {
	return &Iterator{next: next}
}

func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	r, err := it.next()
	if err != nil {
		it.done = true
		it.cur = nil
		if err != io.EOF {
			it.err = err
		}
		return false
	}
	it.cur = r
	return true
}

func (it *Iterator) Record() *record.Record { return it.cur }

func (it *Iterator) Err() error { return it.err }

// Collect drains rs into a slice.
func Collect(rs Records) ([]*record.Record, error) {
	var out []*record.Record
	for rs.Next() {
		out = append(out, rs.Record())
	}
	return out, rs.Err()
}
