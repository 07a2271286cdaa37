package catalog

import "time"

// Branch is a physical library location.
type Branch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Book is a single copy held by a branch.
type Book struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Year         int        `json:"year"`
	ISBN         string     `json:"isbn"`
	BranchID     int64      `json:"branch"`
	IsBorrowed   bool       `json:"is_borrowed"`
	DateBorrowed *time.Time `json:"date_borrowed"`
	// BorrowedBy is the borrower's username.
	BorrowedBy *string `json:"borrowed_by"`
	BorrowerID *int64  `json:"-"`
}

// BookInput is the payload for adding a book.
type BookInput struct {
	Title    string `json:"title" form:"title"`
	Author   string `json:"author" form:"author"`
	Year     int    `json:"year" form:"year"`
	ISBN     string `json:"isbn" form:"isbn"`
	BranchID int64  `json:"branch" form:"branch"`
}

// BranchInput is the payload for adding a branch.
type BranchInput struct {
	Name     string `json:"name" form:"name"`
	Location string `json:"location" form:"location"`
}

// BookFilter narrows ListBooks. Zero values mean "any".
type BookFilter struct {
	BranchID   int64
	Query      string
	BorrowerID int64
}

// Borrower identifies the member taking a book out.
type Borrower struct {
	ID       int64
	Username string
}
