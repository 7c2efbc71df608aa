package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/model"
)

type Repository interface {
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
	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, now time.Time) (model.Borrowing, error)
	CloseBorrowing(ctx context.Context, borrowingID int, now time.Time) (model.Borrowing, *model.Reservation, error)
	GetBorrowing(ctx context.Context, id int) (model.Borrowing, error)
	ListBorrowings(ctx context.Context) ([]model.Borrowing, error)
	ListUserBorrowings(ctx context.Context, userID int) ([]model.Borrowing, error)
	DeleteBorrowing(ctx context.Context, id int) error

	CreateReservation(ctx context.Context, req model.CreateReservationRequest, now time.Time) (model.Reservation, error)
	ListUserReservations(ctx context.Context, userID int) ([]model.Reservation, error)

	// identity
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	SaveRefreshToken(ctx context.Context, jti string, userID int, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, jti string) error
	IsRefreshTokenRevoked(ctx context.Context, jti string) (bool, error)

	// reviews
	CreateReview(ctx context.Context, req model.CreateReviewRequest, now time.Time) (model.Review, error)
	GetReview(ctx context.Context, id int) (model.Review, error)
	ListBookReviews(ctx context.Context, bookID int) ([]model.Review, error)
	UpdateReview(ctx context.Context, id int, req model.UpdateReviewRequest) (model.Review, error)
	DeleteReview(ctx context.Context, id int) error

	// notifications
	CreateNotification(ctx context.Context, userID, bookID int, message string, now time.Time) (model.Notification, error)
	ListAndMarkReadNotifications(ctx context.Context, userID int, now time.Time) ([]model.Notification, error)
	SendDueReminders(ctx context.Context, now time.Time) (int, error)
	SendOverdueAlerts(ctx context.Context, now time.Time) (int, error)

	// reports
	CreateReport(ctx context.Context, reportUid string, reportType model.ReportType, generatedBy int) (model.Report, error)
	ListReports(ctx context.Context) ([]model.Report, error)
	GetReportByUid(ctx context.Context, reportUid string) (model.Report, error)
	FinishReport(ctx context.Context, reportUid string, status model.ReportStatus, file string) error
	MostBorrowedBooks(ctx context.Context, limit int) ([]model.BorrowCount, error)
	LateBorrowings(ctx context.Context, now time.Time) ([]model.BorrowingRow, error)
	OpenBorrowings(ctx context.Context) ([]model.BorrowingRow, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName         = `users`
	authorsTableName       = `authors`
	categoriesTableName    = `categories`
	publishersTableName    = `publishers`
	booksTableName         = `books`
	bookCopiesTableName    = `book_copies`
	borrowingsTableName    = `borrowings`
	reservationsTableName  = `reservations`
	reviewsTableName       = `reviews`
	notificationsTableName = `notifications`
	reportsTableName       = `reports`
	refreshTokensTableName = `refresh_tokens`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// inTx runs fn inside a transaction, rolling back on error.
func (r *repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("tx rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}
