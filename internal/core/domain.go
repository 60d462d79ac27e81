package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar day. The time-of-day part is always midnight UTC;
	// storage serializes it as YYYY-MM-DD so lexicographic order equals
	// chronological order.
	Date struct {
		time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	// ExpenseInput carries the fields needed to record a new expense.
	// Category is the human-readable name; the store resolves it to an
	// identifier before any write.
	ExpenseInput struct {
		Amount      decimal.Decimal
		Description string
		Category    string
		Date        Date
	}

	// ExpenseRow is one joined row from the expense log. Category always
	// reflects the live category row, not a stored copy.
	ExpenseRow struct {
		ID          int64
		Amount      decimal.Decimal
		Date        Date
		Description string
		Category    string
	}

	// ReviseParams is the field mask for a partial expense update.
	// Nil fields are left untouched.
	ReviseParams struct {
		Amount      *decimal.Decimal
		Description *string
		Category    *string
	}
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrNoFieldsToRevise   = errors.New("no fields to revise")
	ErrEmptyCategoryName  = errors.New("empty category name")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(dateLayout)
}

// IsEmpty reports whether the date was left unset.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategoryName
	}
	return nil
}

// IsEmpty reports whether no field of the mask is set.
func (p ReviseParams) IsEmpty() bool {
	return p.Amount == nil && p.Description == nil && p.Category == nil
}
