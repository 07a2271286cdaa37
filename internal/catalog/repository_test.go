package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookRowColumns = []string{"id", "title", "author", "year", "isbn", "branch_id", "is_borrowed",
	"date_borrowed", "borrowed_by", "username"}

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPostgresRepository(mock), mock
}

func TestPostgresListBooksBuildsFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	borrowedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	borrowerID := int64(2)
	borrower := "alice"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.branch_id = $1 AND (b.title ILIKE $2 OR b.author ILIKE $2) ORDER BY b.id")).
		WithArgs(int64(3), `%50\%%`).
		WillReturnRows(pgxmock.NewRows(bookRowColumns).
			AddRow(int64(1), "50% Off", "Someone", 2001, "9780441172719", int64(3), false,
				(*time.Time)(nil), (*int64)(nil), (*string)(nil)).
			AddRow(int64(2), "The 50% Rule", "Other", 2010, "0451524934", int64(3), true,
				&borrowedAt, &borrowerID, &borrower))

	books, err := repo.ListBooks(context.Background(), BookFilter{BranchID: 3, Query: " 50% "})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.False(t, books[0].IsBorrowed)
	assert.Nil(t, books[0].BorrowedBy)
	require.NotNil(t, books[1].BorrowedBy)
	assert.Equal(t, "alice", *books[1].BorrowedBy)
	assert.Equal(t, borrowedAt, *books[1].DateBorrowed)
}

func TestPostgresListBooksByBorrower(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.borrowed_by = $1 ORDER BY b.id")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(bookRowColumns))

	books, err := repo.ListBooks(context.Background(), BookFilter{BorrowerID: 5})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestPostgresGetBookNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetBook(context.Background(), 9)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestPostgresCreateBookUnknownBranch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO books")).
		WithArgs("Dune", "Frank Herbert", 1965, "9780441172719", int64(42)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})

	book := Book{Title: "Dune", Author: "Frank Herbert", Year: 1965, ISBN: "9780441172719", BranchID: 42}
	assert.ErrorIs(t, repo.CreateBook(context.Background(), &book), ErrBranchNotFound)
}

func TestPostgresMarkBorrowed(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	alice := Borrower{ID: 2, Username: "alice"}

	t.Run("on the shelf", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET is_borrowed = TRUE")).
			WithArgs(int64(1), int64(2), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.MarkBorrowed(ctx, 1, alice, time.Now()))
	})

	t.Run("already borrowed", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET is_borrowed = TRUE")).
			WithArgs(int64(1), int64(2), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(bookRowColumns).
				AddRow(int64(1), "Dune", "Frank Herbert", 1965, "9780441172719", int64(3), true,
					(*time.Time)(nil), (*int64)(nil), (*string)(nil)))

		assert.ErrorIs(t, repo.MarkBorrowed(ctx, 1, alice, time.Now()), ErrAlreadyBorrowed)
	})

	t.Run("missing book", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET is_borrowed = TRUE")).
			WithArgs(int64(8), int64(2), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
			WithArgs(int64(8)).
			WillReturnError(pgx.ErrNoRows)

		assert.ErrorIs(t, repo.MarkBorrowed(ctx, 8, alice, time.Now()), ErrBookNotFound)
	})
}

func TestPostgresMarkReturned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE books SET is_borrowed = FALSE")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkReturned(context.Background(), 1, 2))
}

func TestPostgresDeleteBranch(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM branches")).
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation})
	assert.ErrorIs(t, repo.DeleteBranch(ctx, 1), ErrBranchInUse)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM branches")).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.DeleteBranch(ctx, 2), ErrBranchNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM branches")).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, repo.DeleteBranch(ctx, 3))
}

func TestPostgresListBranches(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, location FROM branches ORDER BY id")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "location"}).
			AddRow(int64(1), "Central", "Main Street 1").
			AddRow(int64(2), "East", "Harbour Road"))

	branches, err := repo.ListBranches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Branch{
		{ID: 1, Name: "Central", Location: "Main Street 1"},
		{ID: 2, Name: "East", Location: "Harbour Road"},
	}, branches)
}
