package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/stream"
)

// Placeholder in a batch destination pattern, replaced by the source base name.
const Placeholder = "#"

// resolve picks the handler by name, falling back to the path's extension.
// Standard streams carry no extension, so they require a name.
func resolve(name, path string) (formats.Handler, error) {
	if path == stream.StdPath {
		path = ""
	}
	return formats.Resolve(name, path)
}

// File converts the file src into dst. Formats are looked up by name, or
// by file extension when the name is empty. Either path may be "-" for the
// standard streams.
func File(src, dst, inName, outName string, opts formats.Options) (rep *Report, err error) {
	rep = &Report{Source: src, Destination: dst}
	fail := func(err error) (*Report, error) {
		rep.Error = err.Error()
		return rep, err
	}

	if src == "" {
		return fail(errors.Wrap(errors.ErrInvalidInput, "no input file name"))
	}
	if dst == "" {
		return fail(errors.Wrap(errors.ErrInvalidInput, "no output file name"))
	}
	in, err := resolve(inName, src)
	if err != nil {
		return fail(err)
	}
	out, err := resolve(outName, dst)
	if err != nil {
		return fail(err)
	}
	rep.InFormat, rep.OutFormat = in.Descriptor().Name, out.Descriptor().Name
	if !in.Descriptor().CanRead {
		return fail(errors.NewUnsupported(rep.InFormat, "read"))
	}
	if !out.Descriptor().CanWrite {
		return fail(errors.NewUnsupported(rep.OutFormat, "write"))
	}

	r, err := stream.Open(src)
	if err != nil {
		return fail(err)
	}
	defer r.Close()

	w, err := stream.Create(dst)
	if err != nil {
		return fail(err)
	}

	res, err := Stream(r, w, in, out, opts)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = errors.NewIO("write", dst, cerr)
		res.Error = err.Error()
	}
	res.Source, res.Destination = src, dst
	return res, err
}

// BatchReport collects the reports of a directory conversion.
type BatchReport struct {
	Files  []*Report `json:"files" yaml:"files"`
	Failed int       `json:"failed" yaml:"failed"`
}

// Progress is called after each file of a batch.
type Progress func(done, total int, rep *Report)

// Destination returns where the batch writes the conversion of the source
// file name: the first Placeholder in pattern is replaced by the name
// without its extension; without a placeholder pattern is a directory.
func Destination(pattern, name string) string {
	if strings.Contains(pattern, Placeholder) {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		return strings.Replace(pattern, Placeholder, base, 1)
	}
	return filepath.Join(pattern, name)
}

// Directory converts every regular, non-hidden file directly inside srcDir.
// A failing file does not stop the batch; the failures are returned
// together as an *errors.BatchError.
func Directory(srcDir, pattern, inName, outName string, opts formats.Options, progress Progress) (*BatchReport, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, errors.NewIO("read directory", srcDir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}

	batch := &BatchReport{}
	var failures []*errors.ConversionError
	for i, name := range names {
		src := filepath.Join(srcDir, name)
		rep, err := File(src, Destination(pattern, name), inName, outName, opts)
		batch.Files = append(batch.Files, rep)
		if err != nil {
			batch.Failed++
			failures = append(failures, &errors.ConversionError{Source: src, Err: err})
		}
		if progress != nil {
			progress(i+1, len(names), rep)
		}
	}

	if len(failures) > 0 {
		return batch, &errors.BatchError{Failures: failures}
	}
	return batch, nil
}
