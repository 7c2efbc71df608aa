package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/internal/repository"
)

type Service struct {
	log        *zap.Logger
	repo       repository.Repository
	enqueuer   Enqueuer
	reportsDir string
	now        func() time.Time
}

func NewService(repo repository.Repository, enqueuer Enqueuer, reportsDir string, log *zap.Logger) *Service {
	return &Service{
		log:        log,
		repo:       repo,
		enqueuer:   enqueuer,
		reportsDir: reportsDir,
		now:        time.Now,
	}
}

// catalog

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter, page, size int) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter, page, size)
}

func (s *Service) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListAvailableBooks(ctx)
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.UpdateAuthor(ctx, id, req)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	return s.repo.CreateCategory(ctx, req)
}

func (s *Service) GetCategory(ctx context.Context, id int) (model.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) UpdateCategory(ctx context.Context, id int, req model.CreateCategoryRequest) (model.Category, error) {
	return s.repo.UpdateCategory(ctx, id, req)
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error) {
	return s.repo.CreatePublisher(ctx, req)
}

func (s *Service) GetPublisher(ctx context.Context, id int) (model.Publisher, error) {
	return s.repo.GetPublisher(ctx, id)
}

func (s *Service) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	return s.repo.ListPublishers(ctx)
}

func (s *Service) UpdatePublisher(ctx context.Context, id int, req model.CreatePublisherRequest) (model.Publisher, error) {
	return s.repo.UpdatePublisher(ctx, id, req)
}

func (s *Service) DeletePublisher(ctx context.Context, id int) error {
	return s.repo.DeletePublisher(ctx, id)
}

func (s *Service) CreateBookCopy(ctx context.Context, req model.CreateBookCopyRequest) (model.BookCopy, error) {
	return s.repo.CreateBookCopy(ctx, req)
}

func (s *Service) GetBookCopy(ctx context.Context, id int) (model.BookCopy, error) {
	return s.repo.GetBookCopy(ctx, id)
}

func (s *Service) ListBookCopies(ctx context.Context, bookID *int) ([]model.BookCopy, error) {
	return s.repo.ListBookCopies(ctx, bookID)
}

func (s *Service) UpdateBookCopy(ctx context.Context, id int, req model.CreateBookCopyRequest) (model.BookCopy, error) {
	return s.repo.UpdateBookCopy(ctx, id, req)
}

func (s *Service) DeleteBookCopy(ctx context.Context, id int) error {
	return s.repo.DeleteBookCopy(ctx, id)
}

// borrowing lifecycle

func (s *Service) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest) (model.Borrowing, error) {
	now := s.now()
	if !req.DueDate.After(now) {
		return model.Borrowing{}, errs.ErrInvalidDueDate
	}
	return s.repo.CreateBorrowing(ctx, req, now)
}

// CloseBorrowing returns the book and, when an active reservation was waiting
// on it, notifies the reservation holder that the book is back.
func (s *Service) CloseBorrowing(ctx context.Context, borrowingID int) (model.Borrowing, error) {
	now := s.now()
	borrowing, reservation, err := s.repo.CloseBorrowing(ctx, borrowingID, now)
	if err != nil {
		return model.Borrowing{}, err
	}
	if reservation != nil {
		book, err := s.repo.GetBook(ctx, reservation.BookID)
		if err != nil {
			s.log.Error("CloseBorrowing: fetch reserved book", zap.Error(err))
			return borrowing, nil
		}
		msg := fmt.Sprintf("The book %q you reserved is available again.", book.Title)
		if _, err := s.repo.CreateNotification(ctx, reservation.UserID, reservation.BookID, msg, now); err != nil {
			s.log.Error("CloseBorrowing: notify reservation holder", zap.Error(err))
		}
	}
	return borrowing, nil
}

func (s *Service) GetBorrowing(ctx context.Context, id int) (model.Borrowing, error) {
	return s.repo.GetBorrowing(ctx, id)
}

func (s *Service) ListBorrowings(ctx context.Context) ([]model.Borrowing, error) {
	return s.repo.ListBorrowings(ctx)
}

func (s *Service) ListUserBorrowings(ctx context.Context, userID int) ([]model.Borrowing, error) {
	return s.repo.ListUserBorrowings(ctx, userID)
}

func (s *Service) DeleteBorrowing(ctx context.Context, id int) error {
	return s.repo.DeleteBorrowing(ctx, id)
}

func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	return s.repo.CreateReservation(ctx, req, s.now())
}

func (s *Service) ListUserReservations(ctx context.Context, userID int) ([]model.Reservation, error) {
	return s.repo.ListUserReservations(ctx, userID)
}
