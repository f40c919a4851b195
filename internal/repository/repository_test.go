package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/entity"
)

func openTestDB(t *testing.T) *testStore {
	t.Helper()
	db, err := Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &testStore{
		users:    NewUserRepository(db, nil),
		expenses: NewExpenseRepository(db, nil),
	}
}

type testStore struct {
	users    UserRepository
	expenses ExpenseRepository
}

func seedUser(t *testing.T, s *testStore, username string) *entity.User {
	t.Helper()
	u, err := s.users.Create(context.Background(), username, "x")
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice")
	assert.NotEqual(t, uuid.Nil, u.ID)

	got, err := s.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.users.Create(ctx, "alice", "y")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestExpenseRepositoryCRUD(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, s, "bob")

	e := &entity.Expense{
		UserID:   u.ID,
		Trip:     "berlin-2026",
		Date:     "2026-04-02",
		Cost:     41.50,
		Vendor:   "Curry 61",
		Location: "Berlin",
		Category: "Dining",
		Method:   "builtin",
	}
	require.NoError(t, s.expenses.Create(ctx, e))

	got, err := s.expenses.GetByID(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curry 61", got.Vendor)
	assert.Equal(t, 41.50, got.Cost)

	got.Cost = 45.00
	got.Category = "Expense"
	require.NoError(t, s.expenses.Update(ctx, got))

	got2, err := s.expenses.GetByID(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 45.00, got2.Cost)
	assert.Equal(t, "Expense", got2.Category)

	require.NoError(t, s.expenses.Delete(ctx, u.ID, e.ID))
	_, err = s.expenses.GetByID(ctx, u.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseRepositoryListByTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, s, "carol")

	for _, e := range []*entity.Expense{
		{UserID: u.ID, Trip: "nyc", Date: "2026-01-05", Cost: 12.00, Vendor: "A", Category: "Dining"},
		{UserID: u.ID, Trip: "nyc", Date: "2026-01-07", Cost: 30.00, Vendor: "B", Category: "Travel"},
		{UserID: u.ID, Trip: "sf", Date: "2026-02-01", Cost: 9.99, Vendor: "C", Category: "Expense"},
	} {
		require.NoError(t, s.expenses.Create(ctx, e))
	}

	all, err := s.expenses.List(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	nyc, err := s.expenses.List(ctx, u.ID, "nyc")
	require.NoError(t, err)
	require.Len(t, nyc, 2)
	// newest date first
	assert.Equal(t, "2026-01-07", nyc[0].Date)
	assert.Equal(t, "2026-01-05", nyc[1].Date)
}

func TestExpenseRepositoryScopedToUser(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner")
	other := seedUser(t, s, "other")

	e := &entity.Expense{UserID: owner.ID, Trip: "solo", Date: "2026-03-01", Cost: 5.00, Vendor: "V", Category: "Expense"}
	require.NoError(t, s.expenses.Create(ctx, e))

	_, err := s.expenses.GetByID(ctx, other.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.expenses.Delete(ctx, other.ID, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.expenses.Update(ctx, &entity.Expense{ID: e.ID, UserID: other.ID, Trip: "x", Date: "2026-03-02", Cost: 1, Category: "Expense"})
	assert.ErrorIs(t, err, ErrNotFound)
}
