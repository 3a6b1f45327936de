// Package formulary loads and indexes the reference dataset used by the
// prescription analysis: drug-pair interactions, age-band dosage ranges and
// alternative medications. Data is read from JSON files in the configured
// data directory, falling back to an embedded default dataset, and is keyed
// by normalized drug names for case- and accent-insensitive lookups.
package formulary

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so that accented drug names
// (paracétamol, ibuprofène) match their unaccented spellings.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, trims and accent-folds a drug name. All formulary
// keys and all lookups go through this, which is what makes every lookup
// case-insensitive.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(foldTransformer, name); err == nil {
		return folded
	}
	return name
}

// PairKey builds the canonical key for an unordered drug pair. Both
// orientations of a pair map to the same key.
func PairKey(drug1, drug2 string) string {
	a, b := NormalizeName(drug1), NormalizeName(drug2)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// DosageKey builds the lookup key for a (drug, age band) pair.
func DosageKey(drug, ageBand string) string {
	return NormalizeName(drug) + "|" + ageBand
}
