package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"spendlog/internal/cli"
	"spendlog/internal/core"
	"spendlog/internal/report"
	"spendlog/internal/storage"
)

// main walks the store through a full create/read/update/delete cycle
// against the configured database, printing a report after each phase.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)

	level, _ := cfg.SlogLevel()
	logger = cli.SetupLogger(level)

	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	ctx := context.Background()

	seedCategories(ctx, store)
	logExpenses(ctx, store)
	printReport(ctx, logger, store)

	reviseExpenses(ctx, logger, store)
	printReport(ctx, logger, store)

	removeExpenses(ctx, logger, store)
	printReport(ctx, logger, store)
}

func seedCategories(ctx context.Context, store *storage.SQLiteRepository) {
	for _, name := range []string{"Food", "Transport", "Housing/Rent", "Leisure", "Food"} {
		if _, err := store.AddCategory(ctx, name); err != nil && !errors.Is(err, core.ErrDuplicateCategory) {
			slog.ErrorContext(ctx, "Failed to add category", "name", name, "error", err)
			os.Exit(1)
		}
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list categories", "error", err)
		os.Exit(1)
	}
	for _, c := range categories {
		slog.InfoContext(ctx, "Category available", "id", c.ID, "name", c.Name)
	}
}

func logExpenses(ctx context.Context, store *storage.SQLiteRepository) {
	inputs := []core.ExpenseInput{
		{Amount: decimal.NewFromFloat(25.50), Description: "Big weekend food shop", Category: "Food", Date: core.NewDate(2023, 11, 20)},
		{Amount: decimal.NewFromFloat(5.20), Description: "Daily train ticket", Category: "Transport", Date: core.NewDate(2023, 11, 21)},
		{Amount: decimal.NewFromFloat(89.99), Description: "Internet and electric bill", Category: "Housing/Rent", Date: core.NewDate(2023, 11, 18)},
		{Amount: decimal.NewFromFloat(15.00), Description: "Concert tickets", Category: "Leisure", Date: core.NewDate(2023, 11, 21)},
		// No date given: defaults to today
		{Amount: decimal.NewFromFloat(12.99), Description: "Lunch at cafe near school", Category: "Food"},
		// Category never added: the store must refuse this one
		{Amount: decimal.NewFromFloat(500.00), Description: "New gaming PC", Category: "Electronics", Date: core.NewDate(2023, 11, 22)},
	}

	for _, in := range inputs {
		if _, err := store.RecordExpense(ctx, in); err != nil {
			if errors.Is(err, core.ErrCategoryNotFound) {
				slog.WarnContext(ctx, "Expense rejected", "category", in.Category, "error", err)
				continue
			}
			slog.ErrorContext(ctx, "Failed to record expense", "description", in.Description, "error", err)
			os.Exit(1)
		}
	}
}

func reviseExpenses(ctx context.Context, logger *slog.Logger, store *storage.SQLiteRepository) {
	amount := decimal.NewFromFloat(30.75)
	description := "Corrected food receipt total after tip"
	if err := store.ReviseExpense(ctx, 1, core.ReviseParams{Amount: &amount, Description: &description}); err != nil {
		logger.Warn("Revision failed", "id", 1, "error", err)
	}

	category := "Transport"
	if err := store.ReviseExpense(ctx, 3, core.ReviseParams{Category: &category}); err != nil {
		logger.Warn("Revision failed", "id", 3, "error", err)
	}

	// Revision against a category that was never added must change nothing
	missing := "Nonexistent"
	if err := store.ReviseExpense(ctx, 1, core.ReviseParams{Category: &missing}); err != nil {
		logger.Warn("Revision rejected", "id", 1, "error", err)
	}
}

func removeExpenses(ctx context.Context, logger *slog.Logger, store *storage.SQLiteRepository) {
	if err := store.RemoveExpense(ctx, 2); err != nil {
		logger.Warn("Removal failed", "id", 2, "error", err)
	}

	// Never recorded: the store must report it missing
	if err := store.RemoveExpense(ctx, 999); err != nil {
		logger.Warn("Removal rejected", "id", 999, "error", err)
	}
}

func printReport(ctx context.Context, logger *slog.Logger, store *storage.SQLiteRepository) {
	rows, err := store.ListExpenses(ctx)
	if err != nil {
		logger.Error("Failed to list expenses", "error", err)
		os.Exit(1)
	}
	report.Render(os.Stdout, rows)
}
