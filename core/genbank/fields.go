package genbank

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/seqconvert/core/diag"
	"github.com/FocuswithJustin/seqconvert/core/record"
)

// RequiredFields are taken from the record metadata.
var RequiredFields = []string{"accession", "authors", "title", "journal"}

// OptionalFields are taken from the source feature qualifiers.
var OptionalFields = []string{
	"organism", "mol_type", "altitude", "bio_material", "cell_line",
	"cell_type", "chromosome", "citation", "clone", "clone_lib",
	"collected_by", "collection_date", "country", "geo_loc_name",
	"cultivar", "culture_collection", "db_xref", "dev_stage", "ecotype",
	"environmental_sample", "focus", "germline", "haplogroup", "haplotype",
	"host", "identified_by", "isolate", "isolation_source", "lab_host",
	"lat_lon", "macronuclear", "map", "mating_type", "metagenome_source",
	"note", "organelle", "pcr_primers", "plasmid", "pop_variant", "product",
	"proviral", "rearranged", "segment", "serotype", "serovar", "sex",
	"specimen_voucher", "type_material", "strain", "sub_clone",
	"submitter_seqid", "sub_species", "sub_strain", "tissue_lib",
	"tissue_type", "transgenic", "variety", "locus",
}

// Fields is the field list of records read from a flatfile.
var Fields = record.FieldList{
	"seqid", "organism", "accession", "specimen_voucher", "type_material",
	"strain", "isolate", "country", "geo_loc_name", "sequence", "authors",
	"title", "journal", "locus", "mol_type", "altitude", "bio_material",
	"cell_line", "cell_type", "chromosome", "citation", "clone", "clone_lib",
	"collected_by", "collection_date", "cultivar", "culture_collection",
	"db_xref", "dev_stage", "ecotype", "environmental_sample", "focus",
	"germline", "haplogroup", "haplotype", "host", "identified_by",
	"isolation_source", "lab_host", "lat_lon", "macronuclear", "map",
	"mating_type", "metagenome_source", "note", "organelle", "pcr_primers",
	"plasmid", "pop_variant", "product", "proviral", "rearranged", "segment",
	"serotype", "serovar", "sex", "sub_clone", "submitter_seqid",
	"sub_species", "sub_strain", "tissue_lib", "tissue_type", "transgenic",
	"variety",
}

// Identify names an entry for diagnostics: the first available required
// field, then optional feature, then the start of the sequence.
func (e *Entry) Identify() (field, value string) {
	for _, f := range RequiredFields {
		if v, ok := e.Metadata[f]; ok {
			return f, v
		}
	}
	for _, f := range OptionalFields {
		if v, ok := e.Features[f]; ok {
			return f, v
		}
	}
	seq := e.Sequence
	if len(seq) > 20 {
		seq = seq[:20]
	}
	return record.FieldSequence, seq
}

// Record maps the entry onto Fields. It reports false when the entry has no
// DEFINITION to serve as seqid. Absent fields are empty strings.
func (e *Entry) Record() (*record.Record, bool) {
	def, ok := e.Metadata["definition"]
	if !ok {
		return nil, false
	}
	values := map[string]string{
		record.FieldSeqID:    def,
		record.FieldSequence: e.Sequence,
	}
	for _, f := range RequiredFields {
		values[f] = e.Metadata[f]
	}
	for _, f := range OptionalFields {
		values[f] = e.Features[f]
	}
	if values["locus"] == "" {
		if name := strings.Fields(e.Metadata["locus"]); len(name) > 0 {
			values["locus"] = name[0]
		}
	}
	r, err := record.New(values)
	if err != nil {
		return nil, false
	}
	return r, true
}

// NextRecord returns the next record that has a seqid, skipping the others
// with a warning. It returns io.EOF at the end of the input.
func (s *Scanner) NextRecord() (*record.Record, error) {
	for {
		e, err := s.Next()
		if err != nil {
			return nil, err
		}
		if r, ok := e.Record(); ok {
			return r, nil
		}
		key, val := e.Identify()
		s.warnings.Add(diag.CodeRecordSkipped, fmt.Sprintf(
			"The record with %s %q is missing the definition. A seqid cannot be obtained. Skipping", key, val))
	}
}

