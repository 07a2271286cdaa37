package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelfwise/shelfwise/internal/dbx"
)

// Lending and lookup failures reported by repositories and the service.
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrNotBorrowed     = errors.New("book is not borrowed")
	ErrNotBorrower     = errors.New("book is borrowed by another user")
	ErrBranchInUse     = errors.New("branch still holds books")
)

const foreignKeyViolation = "23503"

// Repository persists books and branches.
type Repository interface {
	ListBooks(ctx context.Context, filter BookFilter) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, book *Book) error
	DeleteBook(ctx context.Context, id int64) error
	// MarkBorrowed only succeeds while the book is on the shelf.
	MarkBorrowed(ctx context.Context, bookID int64, borrower Borrower, at time.Time) error
	// MarkReturned only succeeds while borrowerID still holds the book.
	MarkReturned(ctx context.Context, bookID, borrowerID int64) error

	ListBranches(ctx context.Context) ([]Branch, error)
	GetBranch(ctx context.Context, id int64) (Branch, error)
	CreateBranch(ctx context.Context, branch *Branch) error
	DeleteBranch(ctx context.Context, id int64) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository builds a Postgres-backed catalog repository.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookSelect = `SELECT b.id, b.title, b.author, b.year, b.isbn, b.branch_id, b.is_borrowed,
        b.date_borrowed, b.borrowed_by, u.username
        FROM books b LEFT JOIN users u ON u.id = b.borrowed_by`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListBooks returns books ordered by id. Query is a case-insensitive
// substring match on title or author.
func (r *PostgresRepository) ListBooks(ctx context.Context, filter BookFilter) ([]Book, error) {
	var (
		conds []string
		args  []any
	)
	if filter.BranchID != 0 {
		args = append(args, filter.BranchID)
		conds = append(conds, fmt.Sprintf("b.branch_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		conds = append(conds, fmt.Sprintf("(b.title ILIKE $%[1]d OR b.author ILIKE $%[1]d)", len(args)))
	}
	if filter.BorrowerID != 0 {
		args = append(args, filter.BorrowerID)
		conds = append(conds, fmt.Sprintf("b.borrowed_by = $%d", len(args)))
	}

	query := bookSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY b.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, fmt.Errorf("collect books: %w", err)
	}
	return books, nil
}

// GetBook fetches a book by identifier.
func (r *PostgresRepository) GetBook(ctx context.Context, id int64) (Book, error) {
	book, err := scanBook(r.db.QueryRow(ctx, bookSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// CreateBook inserts a book and fills in its identifier.
func (r *PostgresRepository) CreateBook(ctx context.Context, book *Book) error {
	row := r.db.QueryRow(ctx, `INSERT INTO books (title, author, year, isbn, branch_id)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		book.Title, book.Author, book.Year, book.ISBN, book.BranchID)
	if err := row.Scan(&book.ID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// DeleteBook removes a book.
func (r *PostgresRepository) DeleteBook(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// MarkBorrowed flips the book to borrowed in a single conditional update.
func (r *PostgresRepository) MarkBorrowed(ctx context.Context, bookID int64, borrower Borrower, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE books SET is_borrowed = TRUE, borrowed_by = $2, date_borrowed = $3
        WHERE id = $1 AND NOT is_borrowed`, bookID, borrower.ID, at.UTC())
	if err != nil {
		return fmt.Errorf("borrow book: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetBook(ctx, bookID); err != nil {
		return err
	}
	return ErrAlreadyBorrowed
}

// MarkReturned clears the loan if borrowerID still holds the book.
func (r *PostgresRepository) MarkReturned(ctx context.Context, bookID, borrowerID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE books SET is_borrowed = FALSE, borrowed_by = NULL, date_borrowed = NULL
        WHERE id = $1 AND is_borrowed AND borrowed_by = $2`, bookID, borrowerID)
	if err != nil {
		return fmt.Errorf("return book: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetBook(ctx, bookID); err != nil {
		return err
	}
	return ErrNotBorrowed
}

// ListBranches returns all branches ordered by id.
func (r *PostgresRepository) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location FROM branches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	branches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Branch, error) {
		var b Branch
		err := row.Scan(&b.ID, &b.Name, &b.Location)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect branches: %w", err)
	}
	return branches, nil
}

// GetBranch fetches a branch by identifier.
func (r *PostgresRepository) GetBranch(ctx context.Context, id int64) (Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `SELECT id, name, location FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, ErrBranchNotFound
	}
	if err != nil {
		return Branch{}, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// CreateBranch inserts a branch and fills in its identifier.
func (r *PostgresRepository) CreateBranch(ctx context.Context, branch *Branch) error {
	err := r.db.QueryRow(ctx, `INSERT INTO branches (name, location) VALUES ($1, $2) RETURNING id`,
		branch.Name, branch.Location).Scan(&branch.ID)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// DeleteBranch removes an empty branch.
func (r *PostgresRepository) DeleteBranch(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrBranchInUse
		}
		return fmt.Errorf("delete branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBranchNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var (
		b            Book
		dateBorrowed *time.Time
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.ISBN, &b.BranchID, &b.IsBorrowed,
		&dateBorrowed, &b.BorrowerID, &b.BorrowedBy)
	if err != nil {
		return Book{}, err
	}
	if dateBorrowed != nil {
		utc := dateBorrowed.UTC()
		b.DateBorrowed = &utc
	}
	return b, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
