package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/libratrack/lms/internal/model"
)

const notificationColumns = `id, user_id, book_id, message, created_at, is_read, seen_at`

// ListAndMarkReadNotifications returns the user's notifications and marks
// every returned row read with a seen_at stamp. Re-running is a no-op for
// rows already read.
func (r *repository) ListAndMarkReadNotifications(ctx context.Context, userID int, now time.Time) ([]model.Notification, error) {
	q := fmt.Sprintf(`update %s
	set is_read = true,
	    seen_at = coalesce(seen_at, $2)
	where user_id = $1
	returning %s`, notificationsTableName, notificationColumns)

	notifications := make([]model.Notification, 0)
	if err := r.db.SelectContext(ctx, &notifications, q, userID, now); err != nil {
		return nil, err
	}
	return notifications, nil
}

func insertNotification(ctx context.Context, tx *sqlx.Tx, userID, bookID int, message string, now time.Time) error {
	q, args, err := qb.Insert(notificationsTableName).
		Columns("user_id", "book_id", "message", "created_at").
		Values(userID, bookID, message, now).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

type dueBorrowing struct {
	ID      int       `db:"id"`
	UserID  int       `db:"user_id"`
	BookID  int       `db:"book_id"`
	Title   string    `db:"title"`
	DueDate time.Time `db:"due_date"`
}

func selectDueBorrowings(ctx context.Context, tx *sqlx.Tx, where sq.Sqlizer) ([]dueBorrowing, error) {
	q, args, err := qb.Select("b.id", "b.user_id", "b.book_id", "bk.title", "b.due_date").
		From(borrowingsTableName+" b").
		Join(booksTableName+" bk on bk.id = b.book_id").
		Where(sq.Eq{"b.return_date": nil}).
		Where(where).
		Suffix("for update of b skip locked").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []dueBorrowing
	if err := tx.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// SendDueReminders emits one reminder per open borrowing due within the next
// 24 hours. The reminder_sent_at stamp makes repeated scans idempotent.
func (r *repository) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	var sent int
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := selectDueBorrowings(ctx, tx, sq.And{
			sq.Eq{"b.reminder_sent_at": nil},
			sq.Gt{"b.due_date": now},
			sq.LtOrEq{"b.due_date": now.Add(24 * time.Hour)},
		})
		if err != nil {
			return err
		}
		for _, row := range rows {
			msg := fmt.Sprintf("Reminder: Please return the book %q by %s.",
				row.Title, row.DueDate.Format(time.RFC3339))
			if err := insertNotification(ctx, tx, row.UserID, row.BookID, msg, now); err != nil {
				return err
			}
			q, args, err := qb.Update(borrowingsTableName).
				Set("reminder_sent_at", now).
				Where(sq.Eq{"id": row.ID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

// SendOverdueAlerts emits one alert per open borrowing past its due date and
// flips its status through the shared derivation helper.
func (r *repository) SendOverdueAlerts(ctx context.Context, now time.Time) (int, error) {
	var sent int
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := selectDueBorrowings(ctx, tx, sq.And{
			sq.Eq{"b.overdue_alert_sent_at": nil},
			sq.Lt{"b.due_date": now},
		})
		if err != nil {
			return err
		}
		for _, row := range rows {
			msg := fmt.Sprintf("Alert: The book %q is overdue. Please return it immediately!", row.Title)
			if err := insertNotification(ctx, tx, row.UserID, row.BookID, msg, now); err != nil {
				return err
			}
			status, _ := model.DeriveStatus(row.DueDate, time.Time{}, now)
			q, args, err := qb.Update(borrowingsTableName).
				Set("overdue_alert_sent_at", now).
				Set("status", status).
				Where(sq.Eq{"id": row.ID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

// CreateNotification inserts a single notification outside any scan, used
// when a reserved book becomes available.
func (r *repository) CreateNotification(ctx context.Context, userID, bookID int, message string, now time.Time) (model.Notification, error) {
	q, args, err := qb.Insert(notificationsTableName).
		Columns("user_id", "book_id", "message", "created_at").
		Values(userID, bookID, message, now).
		Suffix("returning " + notificationColumns).
		ToSql()
	if err != nil {
		return model.Notification{}, err
	}
	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, q, args...); err != nil {
		return model.Notification{}, err
	}
	return notification, nil
}
