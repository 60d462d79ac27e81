package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-11-20")
	if err != nil {
		t.Fatalf("ParseDate() unexpected error: %v", err)
	}
	if d.ISO() != "2023-11-20" {
		t.Errorf("ISO() = %q, want 2023-11-20", d.ISO())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "20-11-2023", "2023/11/20", "2023-13-01"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) expected error, got nil", s)
		}
	}
}

func TestDate_IsEmpty(t *testing.T) {
	if !(Date{}).IsEmpty() {
		t.Error("zero Date should be empty")
	}
	if NewDate(2023, 11, 20).IsEmpty() {
		t.Error("a real Date should not be empty")
	}
}

func TestExpenseInput_Validate(t *testing.T) {
	in := ExpenseInput{Amount: decimal.NewFromFloat(25.50), Category: "Food"}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	in.Category = "   "
	if err := in.Validate(); err != ErrEmptyCategoryName {
		t.Errorf("Validate() = %v, want ErrEmptyCategoryName", err)
	}
}

func TestReviseParams_IsEmpty(t *testing.T) {
	if !(ReviseParams{}).IsEmpty() {
		t.Error("mask with no fields should be empty")
	}

	amount := decimal.NewFromFloat(30.75)
	if (ReviseParams{Amount: &amount}).IsEmpty() {
		t.Error("mask with a field should not be empty")
	}
}
