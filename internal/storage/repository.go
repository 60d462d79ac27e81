package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendlog/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository is the expense store. All recoverable outcomes
// (duplicate category, unresolved category name, missing expense,
// empty revision) come back as core sentinel errors so callers can
// branch with errors.Is; driver and IO faults are wrapped separately.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", core.ErrStorageUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AddCategory persists a new category and returns its identifier.
// An existing category with the same name is left alone and reported
// as core.ErrDuplicateCategory.
func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, core.ErrEmptyCategoryName
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert category rows affected: %w", err)
	}
	if affected == 0 {
		slog.InfoContext(ctx, "Category already exists, skipping", "name", name)
		return 0, fmt.Errorf("%w: %s", core.ErrDuplicateCategory, name)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert category last id: %w", err)
	}

	slog.InfoContext(ctx, "Category added", "id", id, "name", name)
	return id, nil
}

// ListCategories returns all categories ordered by name ascending.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// RecordExpense resolves the category name and inserts a new expense
// row in one transaction. A name with no matching category aborts
// before any write with core.ErrCategoryNotFound. A zero date defaults
// to today.
func (r *SQLiteRepository) RecordExpense(ctx context.Context, in core.ExpenseInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	date := in.Date
	if date.IsEmpty() {
		date = core.Today()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	categoryID, err := resolveCategory(ctx, tx, in.Category)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (amount, date, description, category_id) VALUES (?, ?, ?, ?)`,
		in.Amount.InexactFloat64(), date.ISO(), nullableText(in.Description), categoryID)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert expense last id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense recorded",
		"id", id,
		"amount", in.Amount.StringFixed(2),
		"category", in.Category,
		"date", date.ISO())

	return id, nil
}

// ListExpenses returns every expense joined with its category's current
// name, newest date first, and within a date newest identifier first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.ExpenseRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			e.expense_id,
			e.amount,
			e.date,
			e.description,
			c.name
		FROM expenses e
		JOIN categories c ON e.category_id = c.category_id
		ORDER BY e.date DESC, e.expense_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.ExpenseRow{}
	for rows.Next() {
		row, err := scanExpenseRow(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, row)
	}

	return expenses, rows.Err()
}

// GetExpense retrieves a single joined expense row by identifier.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.ExpenseRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			e.expense_id,
			e.amount,
			e.date,
			e.description,
			c.name
		FROM expenses e
		JOIN categories c ON e.category_id = c.category_id
		WHERE e.expense_id = ?`, id)

	e, err := scanExpenseRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseRow{}, fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
	}
	return e, err
}

// CountExpenses returns the number of rows in the expense log.
func (r *SQLiteRepository) CountExpenses(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}

// ReviseExpense applies a partial update to one expense. Supplied
// fields replace the stored values, nil fields stay as they are. A
// category name that does not resolve aborts the whole revision; no
// field is changed. An empty mask is rejected before touching storage.
func (r *SQLiteRepository) ReviseExpense(ctx context.Context, id int64, params core.ReviseParams) error {
	if params.IsEmpty() {
		return core.ErrNoFieldsToRevise
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		amount      sql.NullFloat64
		description sql.NullString
		categoryID  sql.NullInt64
	)

	if params.Amount != nil {
		amount = sql.NullFloat64{Float64: params.Amount.InexactFloat64(), Valid: true}
	}
	if params.Description != nil {
		description = sql.NullString{String: *params.Description, Valid: true}
	}
	if params.Category != nil {
		resolved, err := resolveCategory(ctx, tx, *params.Category)
		if err != nil {
			return err
		}
		categoryID = sql.NullInt64{Int64: resolved, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE expenses SET
			amount = COALESCE(?, amount),
			description = COALESCE(?, description),
			category_id = COALESCE(?, category_id)
		WHERE expense_id = ?`,
		amount, description, categoryID, id)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit revision: %w", err)
	}

	slog.InfoContext(ctx, "Expense revised", "id", id)
	return nil
}

// RemoveExpense deletes one expense permanently. Categories are never
// touched.
func (r *SQLiteRepository) RemoveExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE expense_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
	}

	slog.InfoContext(ctx, "Expense removed", "id", id)
	return nil
}

// resolveCategory is the lookup gate run before every expense write:
// its failure guarantees the write never happens.
func resolveCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT category_id FROM categories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", core.ErrCategoryNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve category %q: %w", name, err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpenseRow(s rowScanner) (core.ExpenseRow, error) {
	var (
		row         core.ExpenseRow
		amount      float64
		dateText    string
		description sql.NullString
	)

	if err := s.Scan(&row.ID, &amount, &dateText, &description, &row.Category); err != nil {
		return core.ExpenseRow{}, err
	}

	date, err := core.ParseDate(dateText)
	if err != nil {
		return core.ExpenseRow{}, fmt.Errorf("parse expense date %q: %w", dateText, err)
	}

	row.Amount = decimal.NewFromFloat(amount)
	row.Date = date
	row.Description = description.String
	return row, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
