package formulary

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/logging"
)

//go:embed defaults/*.json
var defaultData embed.FS

// Relation file names expected inside the data directory. A missing file
// falls back to the embedded default relation; an unreadable or invalid file
// degrades that relation to empty.
const (
	interactionsFile = "interactions.json"
	dosagesFile      = "dosages.json"
	alternativesFile = "alternatives.json"
)

// Parser reads the three formulary relations from disk and indexes them by
// normalized drug name. It never fails the process: a relation that cannot
// be loaded is logged once and served as empty, which callers must treat as
// "no data", not as evidence of safety.
type Parser struct {
	dataDir string
}

// NewParser creates a formulary parser reading from dataDir. An empty
// dataDir serves the embedded default dataset only.
func NewParser(dataDir string) *Parser {
	return &Parser{dataDir: dataDir}
}

// ParseAll loads and indexes all three relations. Interactions are keyed by
// the canonical unordered pair key, dosages by (drug, age band) and
// alternatives by the original drug name.
func (p *Parser) ParseAll() (map[string]entities.InteractionRecord,
	map[string]entities.DosageRecord,
	map[string][]entities.AlternativeRecord, error) {

	var interactionRows []entities.InteractionRecord
	if err := p.readRelation(interactionsFile, &interactionRows); err != nil {
		logging.Warn("Interactions relation unavailable, serving empty", "error", err)
		interactionRows = nil
	}

	var dosageRows []entities.DosageRecord
	if err := p.readRelation(dosagesFile, &dosageRows); err != nil {
		logging.Warn("Dosages relation unavailable, serving empty", "error", err)
		dosageRows = nil
	}

	var alternativeRows []entities.AlternativeRecord
	if err := p.readRelation(alternativesFile, &alternativeRows); err != nil {
		logging.Warn("Alternatives relation unavailable, serving empty", "error", err)
		alternativeRows = nil
	}

	interactions := make(map[string]entities.InteractionRecord, len(interactionRows))
	for _, row := range interactionRows {
		if !row.Severity.Known() {
			logging.Warn("Skipping interaction with unknown severity",
				"drug1", row.Drug1, "drug2", row.Drug2, "severity", row.Severity)
			continue
		}
		interactions[PairKey(row.Drug1, row.Drug2)] = row
	}

	dosages := make(map[string]entities.DosageRecord, len(dosageRows))
	for _, row := range dosageRows {
		dosages[DosageKey(row.Drug, string(row.AgeBand))] = row
	}

	alternatives := make(map[string][]entities.AlternativeRecord, len(alternativeRows))
	for _, row := range alternativeRows {
		key := NormalizeName(row.Original)
		alternatives[key] = append(alternatives[key], row)
	}

	return interactions, dosages, alternatives, nil
}

// readRelation reads one relation file from the data directory, falling back
// to the embedded default when the file does not exist.
func (p *Parser) readRelation(name string, out any) error {
	var (
		raw []byte
		err error
	)

	if p.dataDir != "" {
		path := filepath.Join(p.dataDir, name)
		raw, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if raw == nil {
		raw, err = defaultData.ReadFile("defaults/" + name)
		if err != nil {
			return fmt.Errorf("reading embedded default %s: %w", name, err)
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
