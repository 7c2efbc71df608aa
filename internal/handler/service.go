package handler

import (
	"context"

	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/internal/service"
	"github.com/libratrack/lms/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LMSService interface {
	// identity
	Register(ctx context.Context, req model.RegisterRequest) (auth.TokenPair, error)
	Login(ctx context.Context, req model.LoginRequest) (auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)

	// catalog
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter, page, size int) ([]model.Book, error)
	ListAvailableBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.CreateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id int) error

	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error)
	GetCategory(ctx context.Context, id int) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id int, req model.CreateCategoryRequest) (model.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error)
	GetPublisher(ctx context.Context, id int) (model.Publisher, error)
	ListPublishers(ctx context.Context) ([]model.Publisher, error)
	UpdatePublisher(ctx context.Context, id int, req model.CreatePublisherRequest) (model.Publisher, error)
	DeletePublisher(ctx context.Context, id int) error

	CreateBookCopy(ctx context.Context, req model.CreateBookCopyRequest) (model.BookCopy, error)
	GetBookCopy(ctx context.Context, id int) (model.BookCopy, error)
	ListBookCopies(ctx context.Context, bookID *int) ([]model.BookCopy, error)
	UpdateBookCopy(ctx context.Context, id int, req model.CreateBookCopyRequest) (model.BookCopy, error)
	DeleteBookCopy(ctx context.Context, id int) error

	// borrowing lifecycle
	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.Borrowing, error)
	CloseBorrowing(ctx context.Context, borrowingID int) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id int) (model.Borrowing, error)
	ListBorrowings(ctx context.Context) ([]model.Borrowing, error)
	ListUserBorrowings(ctx context.Context, userID int) ([]model.Borrowing, error)
	DeleteBorrowing(ctx context.Context, id int) error

	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	ListUserReservations(ctx context.Context, userID int) ([]model.Reservation, error)

	// reviews
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error)
	GetReview(ctx context.Context, id int) (model.Review, error)
	ListBookReviews(ctx context.Context, bookID int) ([]model.Review, error)
	UpdateReview(ctx context.Context, userID, id int, req model.UpdateReviewRequest) (model.Review, error)
	DeleteReview(ctx context.Context, userID, id int) error

	// notifications
	ListNotifications(ctx context.Context, userID int) ([]model.Notification, error)

	// reports
	EnqueueReport(ctx context.Context, req model.CreateReportRequest, generatedBy int) (model.Report, error)
	GetReport(ctx context.Context, reportUid string) (model.Report, error)
	ListReports(ctx context.Context) ([]model.Report, error)
	GenerateReport(ctx context.Context, job model.ReportJob) error
}

var _ LMSService = (*service.Service)(nil)
