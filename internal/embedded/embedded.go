// Package embedded registers every built-in format handler. Importing it
// for its side effects is enough to populate the format registry.
package embedded

import (
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/internal/logging"

	_ "github.com/FocuswithJustin/seqconvert/internal/formats/fasta"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/fastq"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/genbank"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/nexml"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/nexus"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/phylip"
	_ "github.com/FocuswithJustin/seqconvert/internal/formats/tab"
)

// IsInitialized reports whether the built-in formats are registered.
func IsInitialized() bool {
	return FormatCount() > 0
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	return len(formats.List())
}

// Announce logs every registered format at debug level.
func Announce() {
	for _, h := range formats.List() {
		d := h.Descriptor()
		logging.FormatRegistered(d.Name, d.Extensions, "read", d.CanRead, "write", d.CanWrite)
	}
}
