package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/shelfwise/shelfwise/internal/notification"
)

// Service implements catalog and lending operations.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
}

// NewService builds a catalog service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Validate checks a new book.
func (in BookInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Year, validation.Required, validation.Min(1), validation.Max(9999)),
		validation.Field(&in.ISBN, validation.Required, validation.Length(10, 17), is.ISBN),
		validation.Field(&in.BranchID, validation.Required, validation.Min(int64(1))),
	)
}

// Validate checks a new branch.
func (in BranchInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Location, validation.Required, validation.Length(1, 100)),
	)
}

// ListBooks returns the books matching filter.
func (s *Service) ListBooks(ctx context.Context, filter BookFilter) ([]Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

// BooksBorrowedBy returns the books currently held by userID.
func (s *Service) BooksBorrowedBy(ctx context.Context, userID int64) ([]Book, error) {
	return s.repo.ListBooks(ctx, BookFilter{BorrowerID: userID})
}

// GetBook returns a single book.
func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetBook(ctx, id)
}

// AddBook validates and stores a new book.
func (s *Service) AddBook(ctx context.Context, in BookInput) (Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	if err := in.Validate(); err != nil {
		return Book{}, err
	}
	book := Book{
		Title:    in.Title,
		Author:   in.Author,
		Year:     in.Year,
		ISBN:     in.ISBN,
		BranchID: in.BranchID,
	}
	if err := s.repo.CreateBook(ctx, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// DeleteBook removes a book.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// Borrow lends a book on the shelf to borrower.
func (s *Service) Borrow(ctx context.Context, bookID int64, borrower Borrower) (Book, error) {
	if err := s.repo.MarkBorrowed(ctx, bookID, borrower, s.now()); err != nil {
		return Book{}, err
	}
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return Book{}, err
	}
	s.notify(ctx, notification.KindBookBorrowed, borrower.Username,
		fmt.Sprintf("You borrowed %q (book %d)", book.Title, book.ID))
	return book, nil
}

// Return puts a borrowed book back. Only the borrower or an admin may return
// it.
func (s *Service) Return(ctx context.Context, bookID int64, caller Borrower, isAdmin bool) (Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return Book{}, err
	}
	if !book.IsBorrowed || book.BorrowerID == nil {
		return Book{}, ErrNotBorrowed
	}
	if *book.BorrowerID != caller.ID && !isAdmin {
		return Book{}, ErrNotBorrower
	}

	destination := caller.Username
	if book.BorrowedBy != nil {
		destination = *book.BorrowedBy
	}
	if err := s.repo.MarkReturned(ctx, bookID, *book.BorrowerID); err != nil {
		return Book{}, err
	}

	book, err = s.repo.GetBook(ctx, bookID)
	if err != nil {
		return Book{}, err
	}
	s.notify(ctx, notification.KindBookReturned, destination,
		fmt.Sprintf("%q (book %d) was returned", book.Title, book.ID))
	return book, nil
}

// ListBranches returns all branches.
func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	return s.repo.ListBranches(ctx)
}

// GetBranch returns a single branch.
func (s *Service) GetBranch(ctx context.Context, id int64) (Branch, error) {
	return s.repo.GetBranch(ctx, id)
}

// AddBranch validates and stores a new branch.
func (s *Service) AddBranch(ctx context.Context, in BranchInput) (Branch, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := in.Validate(); err != nil {
		return Branch{}, err
	}
	branch := Branch{Name: in.Name, Location: in.Location}
	if err := s.repo.CreateBranch(ctx, &branch); err != nil {
		return Branch{}, err
	}
	return branch, nil
}

// DeleteBranch removes a branch that no longer holds books.
func (s *Service) DeleteBranch(ctx context.Context, id int64) error {
	return s.repo.DeleteBranch(ctx, id)
}

func (s *Service) notify(ctx context.Context, kind, destination, body string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{Kind: kind, Destination: destination, Body: body})
}
