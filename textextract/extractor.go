// Package textextract extracts candidate drug entries from unstructured
// prescription text with pattern matching. It is an optional upstream
// collaborator of the analysis pipeline: the pipeline only sees the
// resulting drug entries and does not depend on how they were produced.
package textextract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/prescriptions-api/analysis"
)

// ExtractedDrug is one candidate drug mention with the dosing details found
// near it in the text.
type ExtractedDrug struct {
	Name        string `json:"name"`
	GenericName string `json:"generic_name"`
	DosageForm  string `json:"dosage_form"`
	Strength    string `json:"strength"`
	Route       string `json:"route"`
	Frequency   string `json:"frequency"`
}

// Drug mention patterns: form-prefixed, form-suffixed and bare
// "<name> <amount> <unit>" mentions. Matched against lowercased text.
var drugPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:tab|tablet|cap|capsule|syrup|injection)\s+([a-z]+)\s*(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg)\b`),
	regexp.MustCompile(`\b([a-z]+)\s+(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg)\s*(?:tab|tablet|cap|capsule|syrup|injection)\b`),
	regexp.MustCompile(`\b([a-z]+)\s*-?\s*(\d+(?:\.\d+)?)\s*(mg|ml|g|mcg)\b`),
}

var frequencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:once|twice|thrice|\d+\s*times?)\s*(?:daily|a\s*day|per\s*day)\b`),
	regexp.MustCompile(`\bq(?:6|8|12|24)h\b`),
	regexp.MustCompile(`\b(?:bid|tid|qid|od)\b`),
	regexp.MustCompile(`\bevery\s+(?:\d+\s*hours?|\d+\s*days?)\b`),
}

// dosageForms lists form labels with the keywords that indicate them near a
// drug mention. Checked in order; the first hit wins.
var dosageForms = []struct {
	form     string
	keywords []string
}{
	{"capsule", []string{"cap", "capsule"}},
	{"syrup", []string{"syrup", "liquid"}},
	{"injection", []string{"injection", "inj"}},
	{"tablet", []string{"tab", "tablet"}},
}

// Extractor extracts drug entries from free text.
type Extractor struct{}

// NewExtractor creates a text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the drug mentions found in text, deduplicated by
// (name, strength).
func (e *Extractor) Extract(text string) []ExtractedDrug {
	lower := strings.ToLower(text)

	var drugs []ExtractedDrug
	for _, pattern := range drugPatterns {
		for _, match := range pattern.FindAllStringSubmatchIndex(lower, -1) {
			name := lower[match[2]:match[3]]
			amount := lower[match[4]:match[5]]
			unit := lower[match[6]:match[7]]

			drugs = append(drugs, ExtractedDrug{
				Name:        capitalize(name),
				GenericName: capitalize(name),
				DosageForm:  detectDosageForm(lower, match[0], match[1]),
				Strength:    fmt.Sprintf("%s %s", amount, unit),
				Route:       "oral",
				Frequency:   detectFrequency(lower, match[0], match[1]),
			})
		}
	}

	return deduplicate(drugs)
}

// ToDrugs converts extracted mentions into the analysis drug entry shape.
func ToDrugs(extracted []ExtractedDrug) []analysis.Drug {
	drugs := make([]analysis.Drug, len(extracted))
	for i, e := range extracted {
		drugs[i] = analysis.Drug{
			Name:        e.Name,
			GenericName: e.GenericName,
			DosageForm:  e.DosageForm,
			Strength:    e.Strength,
			Route:       e.Route,
		}
	}
	return drugs
}

// detectFrequency searches a window around a drug mention for a dosing
// frequency, defaulting to "as directed".
func detectFrequency(text string, start, end int) string {
	window := windowAround(text, start, end, 30)
	for _, pattern := range frequencyPatterns {
		if match := pattern.FindString(window); match != "" {
			return match
		}
	}
	return "as directed"
}

// detectDosageForm inspects the context around a mention for a dosage form
// keyword, defaulting to tablet.
func detectDosageForm(text string, start, end int) string {
	window := windowAround(text, start, end, 20)
	for _, candidate := range dosageForms {
		for _, keyword := range candidate.keywords {
			if strings.Contains(window, keyword) {
				return candidate.form
			}
		}
	}
	return "tablet"
}

func windowAround(text string, start, end, radius int) string {
	from := start - radius
	if from < 0 {
		from = 0
	}
	to := end + radius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

func deduplicate(drugs []ExtractedDrug) []ExtractedDrug {
	seen := make(map[string]bool, len(drugs))
	unique := make([]ExtractedDrug, 0, len(drugs))
	for _, drug := range drugs {
		key := strings.ToLower(drug.Name) + "|" + drug.Strength
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, drug)
	}
	return unique
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
