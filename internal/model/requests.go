package model

import "time"

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,max=150"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    string  `json:"phone" validate:"required,max=15"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  *string `json:"address"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin librarian member"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type CreateBookRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	AuthorID        int     `json:"authorID" validate:"required"`
	CategoryID      *int    `json:"categoryID"`
	PublisherID     *int    `json:"publisherID"`
	ISBN            string  `json:"isbn" validate:"required,max=13"`
	PublicationDate Date    `json:"publicationDate" validate:"required"`
	NumberOfPages   int     `json:"numberOfPages" validate:"gte=0"`
	Description     *string `json:"description"`
	AvailableCopies int     `json:"availableCopies" validate:"gte=0"`
	TotalCopies     int     `json:"totalCopies" validate:"gte=1"`
}

type CreateAuthorRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	Biography   *string `json:"biography"`
	DateOfBirth *Date   `json:"dateOfBirth"`
	DateOfDeath *Date   `json:"dateOfDeath"`
}

type CreateCategoryRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
}

type CreatePublisherRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Address      *string `json:"address"`
	Website      *string `json:"website" validate:"omitempty,url"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
}

type CreateBookCopyRequest struct {
	BookID     int  `json:"bookID" validate:"required"`
	CopyNumber int  `json:"copyNumber" validate:"required,gte=1"`
	IsBorrowed bool `json:"isBorrowed"`
}

type CreateBorrowingRequest struct {
	UserID  int       `json:"userID" validate:"required"`
	BookID  int       `json:"bookID" validate:"required"`
	DueDate time.Time `json:"dueDate" validate:"required"`
}

type CreateReservationRequest struct {
	BookID int `json:"bookID" validate:"required"`
	UserID int `json:"-"`
}

type CreateReviewRequest struct {
	BookID  int    `json:"bookID" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
	UserID  int    `json:"-"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type CreateReportRequest struct {
	ReportType ReportType `json:"reportType" validate:"required,oneof=MOST_BORROWED_BOOKS LATE_BORROWERS CURRENTLY_BORROWED_BOOKS"`
}

// ReportJob is the message enqueued to kafka for the report worker.
type ReportJob struct {
	ReportUid  string     `json:"reportUid"`
	ReportType ReportType `json:"reportType"`
}

type BookFilter struct {
	AuthorID   *int
	CategoryID *int
	Title      string
}
