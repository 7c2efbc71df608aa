package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
)

const reportColumns = `id, report_uid, report_type, generated_by, generated_at, file, status`

func (r *repository) CreateReport(ctx context.Context, reportUid string, reportType model.ReportType, generatedBy int) (model.Report, error) {
	q, args, err := qb.Insert(reportsTableName).
		Columns("report_uid", "report_type", "generated_by", "status").
		Values(reportUid, reportType, generatedBy, model.ReportStatusPending).
		Suffix("returning " + reportColumns).
		ToSql()
	if err != nil {
		return model.Report{}, err
	}
	var report model.Report
	if err := r.db.GetContext(ctx, &report, q, args...); err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func (r *repository) ListReports(ctx context.Context) ([]model.Report, error) {
	q, args, err := qb.Select(reportColumns).
		From(reportsTableName).
		OrderBy("generated_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	reports := make([]model.Report, 0)
	if err := r.db.SelectContext(ctx, &reports, q, args...); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repository) GetReportByUid(ctx context.Context, reportUid string) (model.Report, error) {
	q, args, err := qb.Select(reportColumns).
		From(reportsTableName).
		Where(sq.Eq{"report_uid": reportUid}).
		ToSql()
	if err != nil {
		return model.Report{}, err
	}
	var report model.Report
	if err := r.db.GetContext(ctx, &report, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Report{}, errs.ErrNotFound
		}
		return model.Report{}, err
	}
	return report, nil
}

func (r *repository) FinishReport(ctx context.Context, reportUid string, status model.ReportStatus, file string) error {
	q, args, err := qb.Update(reportsTableName).
		Set("status", status).
		Set("file", file).
		Where(sq.Eq{"report_uid": reportUid}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) MostBorrowedBooks(ctx context.Context, limit int) ([]model.BorrowCount, error) {
	q, args, err := qb.Select("bk.title", "count(*) as total_borrows").
		From(borrowingsTableName + " b").
		Join(booksTableName + " bk on bk.id = b.book_id").
		GroupBy("bk.title").
		OrderBy("total_borrows desc", "bk.title").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows := make([]model.BorrowCount, 0)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) LateBorrowings(ctx context.Context, now time.Time) ([]model.BorrowingRow, error) {
	q, args, err := qb.Select("u.username", "bk.title", "b.borrow_date", "b.due_date").
		From(borrowingsTableName+" b").
		Join(booksTableName+" bk on bk.id = b.book_id").
		Join(usersTableName+" u on u.id = b.user_id").
		Where(sq.Eq{"b.return_date": nil}).
		Where(sq.Lt{"b.due_date": now}).
		OrderBy("b.due_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows := make([]model.BorrowingRow, 0)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) OpenBorrowings(ctx context.Context) ([]model.BorrowingRow, error) {
	q, args, err := qb.Select("u.username", "bk.title", "b.borrow_date", "b.due_date").
		From(borrowingsTableName+" b").
		Join(booksTableName+" bk on bk.id = b.book_id").
		Join(usersTableName+" u on u.id = b.user_id").
		Where(sq.Eq{"b.return_date": nil}).
		OrderBy("b.borrow_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows := make([]model.BorrowingRow, 0)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
