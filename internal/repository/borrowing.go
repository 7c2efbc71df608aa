package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
)

const borrowingColumns = `id, user_id, book_id, borrow_date, due_date, return_date, status,
	late_fee, reminder_sent_at, overdue_alert_sent_at`

// lockBook reads the book row under FOR UPDATE so concurrent borrow/return/
// reserve requests for the same book serialize on it.
func lockBook(ctx context.Context, tx *sqlx.Tx, bookID int) (model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := tx.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func setBookBorrowed(ctx context.Context, tx *sqlx.Tx, bookID int, borrowed bool) error {
	q, args, err := qb.Update(booksTableName).
		Set("is_borrowed", borrowed).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, now time.Time) (model.Borrowing, error) {
	var borrowing model.Borrowing
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		book, err := lockBook(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if book.IsBorrowed {
			return errs.ErrAlreadyBorrowed
		}

		q, args, err := qb.Insert(borrowingsTableName).
			Columns("user_id", "book_id", "borrow_date", "due_date", "status", "late_fee").
			Values(req.UserID, req.BookID, now, req.DueDate, model.StatusBorrowed, 0).
			Suffix("returning " + borrowingColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &borrowing, q, args...); err != nil {
			if isUniqueViolation(err) {
				return errs.ErrAlreadyBorrowed
			}
			r.log.Error("CreateBorrowing", zap.String("q", q), zap.Any("args", args))
			return err
		}

		return setBookBorrowed(ctx, tx, req.BookID, true)
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

// CloseBorrowing sets the return date, derives the terminal status and late
// fee, restores the book's availability and deactivates any active
// reservation on the book, all in one transaction. The returned reservation
// (if any) lets the caller notify its holder.
func (r *repository) CloseBorrowing(ctx context.Context, borrowingID int, now time.Time) (model.Borrowing, *model.Reservation, error) {
	var (
		borrowing   model.Borrowing
		reservation *model.Reservation
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := qb.Select(borrowingColumns).
			From(borrowingsTableName).
			Where(sq.Eq{"id": borrowingID}).
			Suffix("for update").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &borrowing, q, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if borrowing.ReturnDate != nil {
			return errs.ErrAlreadyReturned
		}
		if _, err := lockBook(ctx, tx, borrowing.BookID); err != nil {
			return err
		}

		status, fee := model.DeriveStatus(borrowing.DueDate, now, now)
		q, args, err = qb.Update(borrowingsTableName).
			Set("return_date", now).
			Set("status", status).
			Set("late_fee", fee).
			Where(sq.Eq{"id": borrowingID}).
			Suffix("returning " + borrowingColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &borrowing, q, args...); err != nil {
			return err
		}

		if err := setBookBorrowed(ctx, tx, borrowing.BookID, false); err != nil {
			return err
		}

		q, args, err = qb.Update(reservationsTableName).
			Set("is_active", false).
			Where(sq.Eq{"book_id": borrowing.BookID, "is_active": true}).
			Suffix("returning id, user_id, book_id, reserved_at, is_active").
			ToSql()
		if err != nil {
			return err
		}
		var res model.Reservation
		if err := tx.GetContext(ctx, &res, q, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		reservation = &res
		return nil
	})
	if err != nil {
		return model.Borrowing{}, nil, err
	}
	return borrowing, reservation, nil
}

func (r *repository) GetBorrowing(ctx context.Context, id int) (model.Borrowing, error) {
	q, args, err := qb.Select(borrowingColumns).
		From(borrowingsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Borrowing{}, err
	}
	var borrowing model.Borrowing
	if err := r.db.GetContext(ctx, &borrowing, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Borrowing{}, errs.ErrNotFound
		}
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *repository) ListBorrowings(ctx context.Context) ([]model.Borrowing, error) {
	q, args, err := qb.Select(borrowingColumns).
		From(borrowingsTableName).
		OrderBy("borrow_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	borrowings := make([]model.Borrowing, 0)
	if err := r.db.SelectContext(ctx, &borrowings, q, args...); err != nil {
		return nil, err
	}
	return borrowings, nil
}

func (r *repository) ListUserBorrowings(ctx context.Context, userID int) ([]model.Borrowing, error) {
	q, args, err := qb.Select(borrowingColumns).
		From(borrowingsTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("borrow_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	borrowings := make([]model.Borrowing, 0)
	if err := r.db.SelectContext(ctx, &borrowings, q, args...); err != nil {
		return nil, err
	}
	return borrowings, nil
}

// DeleteBorrowing removes the record, restoring the book's availability when
// the borrowing was still open.
func (r *repository) DeleteBorrowing(ctx context.Context, id int) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := qb.Delete(borrowingsTableName).
			Where(sq.Eq{"id": id}).
			Suffix("returning book_id, return_date").
			ToSql()
		if err != nil {
			return err
		}
		var row struct {
			BookID     int        `db:"book_id"`
			ReturnDate *time.Time `db:"return_date"`
		}
		if err := tx.GetContext(ctx, &row, q, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if row.ReturnDate == nil {
			return setBookBorrowed(ctx, tx, row.BookID, false)
		}
		return nil
	})
}
