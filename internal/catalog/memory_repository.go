package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRepository struct {
	mu           sync.RWMutex
	nextBookID   int64
	nextBranchID int64
	books        map[int64]Book
	branches     map[int64]Branch
}

// NewMemoryRepository builds an in-memory catalog for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		books:    make(map[int64]Book),
		branches: make(map[int64]Branch),
	}
}

func (r *memoryRepository) ListBooks(_ context.Context, filter BookFilter) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	books := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if filter.BranchID != 0 && b.BranchID != filter.BranchID {
			continue
		}
		if filter.BorrowerID != 0 && (b.BorrowerID == nil || *b.BorrowerID != filter.BorrowerID) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(strings.ToLower(b.Author), q) {
			continue
		}
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *memoryRepository) GetBook(_ context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return b, nil
}

func (r *memoryRepository) CreateBook(_ context.Context, book *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[book.BranchID]; !ok {
		return ErrBranchNotFound
	}
	r.nextBookID++
	book.ID = r.nextBookID
	r.books[book.ID] = *book
	return nil
}

func (r *memoryRepository) DeleteBook(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memoryRepository) MarkBorrowed(_ context.Context, bookID int64, borrower Borrower, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return ErrBookNotFound
	}
	if b.IsBorrowed {
		return ErrAlreadyBorrowed
	}
	when := at.UTC()
	id, username := borrower.ID, borrower.Username
	b.IsBorrowed = true
	b.DateBorrowed = &when
	b.BorrowerID = &id
	b.BorrowedBy = &username
	r.books[bookID] = b
	return nil
}

func (r *memoryRepository) MarkReturned(_ context.Context, bookID, borrowerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return ErrBookNotFound
	}
	if !b.IsBorrowed || b.BorrowerID == nil || *b.BorrowerID != borrowerID {
		return ErrNotBorrowed
	}
	b.IsBorrowed = false
	b.DateBorrowed = nil
	b.BorrowerID = nil
	b.BorrowedBy = nil
	r.books[bookID] = b
	return nil
}

func (r *memoryRepository) ListBranches(_ context.Context) ([]Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	branches := make([]Branch, 0, len(r.branches))
	for _, b := range r.branches {
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].ID < branches[j].ID })
	return branches, nil
}

func (r *memoryRepository) GetBranch(_ context.Context, id int64) (Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.branches[id]
	if !ok {
		return Branch{}, ErrBranchNotFound
	}
	return b, nil
}

func (r *memoryRepository) CreateBranch(_ context.Context, branch *Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextBranchID++
	branch.ID = r.nextBranchID
	r.branches[branch.ID] = *branch
	return nil
}

func (r *memoryRepository) DeleteBranch(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[id]; !ok {
		return ErrBranchNotFound
	}
	for _, b := range r.books {
		if b.BranchID == id {
			return ErrBranchInUse
		}
	}
	delete(r.branches, id)
	return nil
}
