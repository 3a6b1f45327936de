package validation

import (
	"strings"
	"testing"
)

func TestValidateDrugNameValid(t *testing.T) {
	v := NewValidator()

	valid := []string{
		"paracetamol",
		"Aspirin",
		"co-amoxiclav",
		"vitamin B12",
		"paracétamol",
		"contrast_dye",
	}
	for _, name := range valid {
		if err := v.ValidateDrugName(name); err != nil {
			t.Errorf("Expected %q to be valid, got %v", name, err)
		}
	}
}

func TestValidateDrugNameInvalid(t *testing.T) {
	v := NewValidator()

	invalid := []string{
		"",
		"   ",
		"<script>alert(1)</script>",
		"aspirin; drop table drugs",
		strings.Repeat("a", 101),
	}
	for _, name := range invalid {
		if err := v.ValidateDrugName(name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestValidateInputDangerousContent(t *testing.T) {
	v := NewValidator()

	dangerous := []string{
		"javascript:alert(1)",
		"' or 1=1 --",
		"../../etc/passwd",
		"${jndi:ldap}",
	}
	for _, input := range dangerous {
		if err := v.ValidateInput(input); err == nil {
			t.Errorf("Expected %q to be rejected", input)
		}
	}

	if err := v.ValidateInput("Paracetamol 500 mg twice daily"); err != nil {
		t.Errorf("Expected prescription text to pass, got %v", err)
	}
}

func TestValidateAge(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateAge(0); err != nil {
		t.Errorf("Age 0 must be valid, got %v", err)
	}
	if err := v.ValidateAge(120); err != nil {
		t.Errorf("Age 120 must be valid, got %v", err)
	}
	if err := v.ValidateAge(-1); err == nil {
		t.Error("Expected negative age to be rejected")
	}
}

func TestValidateWeight(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateWeight(20.5); err != nil {
		t.Errorf("Weight 20.5 must be valid, got %v", err)
	}
	if err := v.ValidateWeight(0); err == nil {
		t.Error("Expected zero weight to be rejected")
	}
	if err := v.ValidateWeight(-3); err == nil {
		t.Error("Expected negative weight to be rejected")
	}
}
