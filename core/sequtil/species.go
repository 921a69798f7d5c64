package sequtil

import (
	"github.com/FocuswithJustin/seqconvert/core/record"
)

// speciesFields lists the column names recognized as holding a species
// name, in priority order.
var speciesFields = []string{
	"organism",
	"scientificname",
	"identification/fullscientificnamestring",
	"scientific name",
	"scientific_name",
	"species",
	"speciesname",
	"species name",
	"species_name",
}

// SpeciesField returns the first recognized species column in fields.
func SpeciesField(fields record.FieldList) (string, bool) {
	for _, name := range speciesFields {
		if fields.Contains(name) {
			return name, true
		}
	}
	return "", false
}
