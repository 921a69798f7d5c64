package sequtil

// nucleotideSymbols are IUPAC nucleotide codes in both cases plus gap and
// missing-data symbols.
const nucleotideSymbols = "ATGCRYMKSWBDHVNUatgcrymkswbdhvnu-?"

var nucleotideTable [256]bool

func init() {
	for i := 0; i < len(nucleotideSymbols); i++ {
		nucleotideTable[nucleotideSymbols[i]] = true
	}
}

// IsNucleotide reports whether s consists only of nucleotide, gap and
// missing-data symbols. The empty string qualifies.
func IsNucleotide(s string) bool {
	for i := 0; i < len(s); i++ {
		if !nucleotideTable[s[i]] {
			return false
		}
	}
	return true
}
