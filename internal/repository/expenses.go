package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"expense-tracker/internal/entity"
)

// ExpenseRepository persists expense records.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	Update(ctx context.Context, e *entity.Expense) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Expense, error)
	List(ctx context.Context, userID uuid.UUID, trip string) ([]*entity.Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type expenseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExpenseRepository(db *sql.DB, logger *slog.Logger) ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &expenseRepository{db: db, logger: logger}
}

func (r *expenseRepository) Create(ctx context.Context, e *entity.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, trip, date, cost, vendor, location, category, method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.UserID.String(), e.Trip, e.Date, e.Cost, e.Vendor, e.Location, e.Category, e.Method,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	r.logger.Info("repository.expenses.created", "expense_id", e.ID, "user_id", e.UserID, "trip", e.Trip)
	return nil
}

func (r *expenseRepository) Update(ctx context.Context, e *entity.Expense) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET trip = ?, date = ?, cost = ?, vendor = ?, location = ?, category = ?, method = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		e.Trip, e.Date, e.Cost, e.Vendor, e.Location, e.Category, e.Method, e.UpdatedAt,
		e.ID.String(), e.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, trip, date, cost, vendor, location, category, method, created_at, updated_at
		 FROM expenses WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	return scanExpense(row)
}

func (r *expenseRepository) List(ctx context.Context, userID uuid.UUID, trip string) ([]*entity.Expense, error) {
	query := `SELECT id, user_id, trip, date, cost, vendor, location, category, method, created_at, updated_at
		 FROM expenses WHERE user_id = ?`
	args := []any{userID.String()}
	if trip != "" {
		query += ` AND trip = ?`
		args = append(args, trip)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("repository.expenses.rows_close", "error", cerr)
		}
	}()

	var out []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *expenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*entity.Expense, error) {
	var e entity.Expense
	var id, userID string
	err := row.Scan(&id, &userID, &e.Trip, &e.Date, &e.Cost, &e.Vendor, &e.Location, &e.Category, &e.Method,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse expense id: %w", err)
	}
	if e.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse expense user id: %w", err)
	}
	return &e, nil
}
