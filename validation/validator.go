// Package validation provides request input validation for the
// prescriptions API: shape checks for patient data and screening of
// user-supplied text before it reaches the analysis pipeline.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/prescriptions-api/interfaces"
)

// Pre-compiled patterns, compiled once at package initialization.
var (
	// Drug names: letters, digits, spaces, accents and safe punctuation.
	drugNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+_'àâäéèêëïîôöùûüÿç]+$`)

	// Dangerous substrings checked before any regex work;
	// strings.Contains is much cheaper than a regex for these.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"insert into", "--", "/*", "*/", "exec(", "execute(",
		"../", "..\\", "%2e%2e", "file://",
		"${", "$(", "`",
	}
)

// Compile-time check to ensure Validator implements interfaces.Validator
var _ interfaces.Validator = (*Validator)(nil)

// Validator implements the interfaces.Validator contract.
type Validator struct{}

// NewValidator creates a request validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInput screens free-form user input for dangerous content.
func (v *Validator) ValidateInput(input string) error {
	if len(input) > 10000 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed content")
		}
	}
	return nil
}

// ValidateDrugName checks a drug name for shape and dangerous content.
func (v *Validator) ValidateDrugName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("drug name is empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("drug name too long: %d characters", len(name))
	}
	if err := v.ValidateInput(name); err != nil {
		return err
	}
	if !drugNameRegex.MatchString(name) {
		return fmt.Errorf("drug name contains invalid characters")
	}
	return nil
}

// ValidateAge checks the patient age invariant.
func (v *Validator) ValidateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("age must be non-negative, got: %d", age)
	}
	return nil
}

// ValidateWeight checks the patient weight invariant.
func (v *Validator) ValidateWeight(weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("weight must be positive, got: %v", weight)
	}
	return nil
}
