package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
)

const reservationColumns = `id, user_id, book_id, reserved_at, is_active`

func (r *repository) CreateReservation(ctx context.Context, req model.CreateReservationRequest, now time.Time) (model.Reservation, error) {
	var reservation model.Reservation
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		book, err := lockBook(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		// reservations only make sense for a book somebody is holding
		if !book.IsBorrowed {
			return errs.ErrNotBorrowed
		}

		q, args, err := qb.Select("count(*)").
			From(reservationsTableName).
			Where(sq.Eq{"book_id": req.BookID, "is_active": true}).
			ToSql()
		if err != nil {
			return err
		}
		var active int
		if err := tx.GetContext(ctx, &active, q, args...); err != nil {
			return err
		}
		if active > 0 {
			return errs.ErrAlreadyReserved
		}

		q, args, err = qb.Insert(reservationsTableName).
			Columns("user_id", "book_id", "reserved_at", "is_active").
			Values(req.UserID, req.BookID, now, true).
			Suffix("returning " + reservationColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &reservation, q, args...); err != nil {
			if isUniqueViolation(err) {
				return errs.ErrAlreadyReserved
			}
			r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
			return err
		}
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return reservation, nil
}

func (r *repository) ListUserReservations(ctx context.Context, userID int) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns).
		From(reservationsTableName).
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("reserved_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	reservations := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &reservations, q, args...); err != nil {
		return nil, err
	}
	return reservations, nil
}
