package model

import (
	"database/sql"
	"time"
)

type Book struct {
	ID              int     `json:"id" db:"id"`
	Title           string  `json:"title" db:"title"`
	AuthorID        int     `json:"authorID" db:"author_id"`
	CategoryID      *int    `json:"categoryID" db:"category_id"`
	PublisherID     *int    `json:"publisherID" db:"publisher_id"`
	ISBN            string  `json:"isbn" db:"isbn"`
	PublicationDate Date    `json:"publicationDate" db:"publication_date"`
	NumberOfPages   int     `json:"numberOfPages" db:"number_of_pages"`
	Description     *string `json:"description" db:"description"`
	AvailableCopies int     `json:"availableCopies" db:"available_copies"`
	TotalCopies     int     `json:"totalCopies" db:"total_copies"`
	IsBorrowed      bool    `json:"isBorrowed" db:"is_borrowed"`
}

type Author struct {
	ID          int     `json:"id" db:"id"`
	FirstName   string  `json:"firstName" db:"first_name"`
	LastName    string  `json:"lastName" db:"last_name"`
	Biography   *string `json:"biography" db:"biography"`
	DateOfBirth *Date   `json:"dateOfBirth" db:"date_of_birth"`
	DateOfDeath *Date   `json:"dateOfDeath" db:"date_of_death"`
}

type Category struct {
	ID          int     `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
}

type Publisher struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Address      *string `json:"address" db:"address"`
	Website      *string `json:"website" db:"website"`
	ContactEmail *string `json:"contactEmail" db:"contact_email"`
}

type BookCopy struct {
	ID         int  `json:"id" db:"id"`
	BookID     int  `json:"bookID" db:"book_id"`
	CopyNumber int  `json:"copyNumber" db:"copy_number"`
	IsBorrowed bool `json:"isBorrowed" db:"is_borrowed"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        *string   `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	Address      *string   `json:"address" db:"address"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Borrowing struct {
	ID                 int          `json:"id" db:"id"`
	UserID             int          `json:"userID" db:"user_id"`
	BookID             int          `json:"bookID" db:"book_id"`
	BorrowDate         time.Time    `json:"borrowDate" db:"borrow_date"`
	DueDate            time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate         *time.Time   `json:"returnDate" db:"return_date"`
	Status             Status       `json:"status" db:"status"`
	LateFee            float64      `json:"lateFee" db:"late_fee"`
	ReminderSentAt     sql.NullTime `json:"-" db:"reminder_sent_at"`
	OverdueAlertSentAt sql.NullTime `json:"-" db:"overdue_alert_sent_at"`
}

type Reservation struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"userID" db:"user_id"`
	BookID     int       `json:"bookID" db:"book_id"`
	ReservedAt time.Time `json:"reservedAt" db:"reserved_at"`
	IsActive   bool      `json:"isActive" db:"is_active"`
}

type Review struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userID" db:"user_id"`
	BookID    int       `json:"bookID" db:"book_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Notification struct {
	ID        int          `json:"id" db:"id"`
	UserID    int          `json:"userID" db:"user_id"`
	BookID    int          `json:"bookID" db:"book_id"`
	Message   string       `json:"message" db:"message"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	IsRead    bool         `json:"isRead" db:"is_read"`
	SeenAt    *time.Time   `json:"seenAt" db:"seen_at"`
}

type ReportType string

const (
	ReportMostBorrowedBooks      ReportType = "MOST_BORROWED_BOOKS"
	ReportLateBorrowers          ReportType = "LATE_BORROWERS"
	ReportCurrentlyBorrowedBooks ReportType = "CURRENTLY_BORROWED_BOOKS"
)

type ReportStatus string

const (
	ReportStatusPending ReportStatus = "pending"
	ReportStatusSuccess ReportStatus = "success"
	ReportStatusFailed  ReportStatus = "failed"
)

type Report struct {
	ID          int          `json:"id" db:"id"`
	ReportUid   string       `json:"reportUid" db:"report_uid"`
	ReportType  ReportType   `json:"reportType" db:"report_type"`
	GeneratedBy int          `json:"generatedBy" db:"generated_by"`
	GeneratedAt time.Time    `json:"generatedAt" db:"generated_at"`
	File        string       `json:"file" db:"file"`
	Status      ReportStatus `json:"status" db:"status"`
}
