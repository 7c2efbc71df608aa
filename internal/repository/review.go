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

const reviewColumns = `id, user_id, book_id, rating, comment, created_at`

func (r *repository) CreateReview(ctx context.Context, req model.CreateReviewRequest, now time.Time) (model.Review, error) {
	q, args, err := qb.Insert(reviewsTableName).
		Columns("user_id", "book_id", "rating", "comment", "created_at").
		Values(req.UserID, req.BookID, req.Rating, req.Comment, now).
		Suffix("returning " + reviewColumns).
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var review model.Review
	if err := r.db.GetContext(ctx, &review, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Review{}, errs.ErrAlreadyReviewed
		}
		return model.Review{}, err
	}
	return review, nil
}

func (r *repository) GetReview(ctx context.Context, id int) (model.Review, error) {
	q, args, err := qb.Select(reviewColumns).
		From(reviewsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var review model.Review
	if err := r.db.GetContext(ctx, &review, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Review{}, errs.ErrNotFound
		}
		return model.Review{}, err
	}
	return review, nil
}

func (r *repository) ListBookReviews(ctx context.Context, bookID int) ([]model.Review, error) {
	q, args, err := qb.Select(reviewColumns).
		From(reviewsTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	reviews := make([]model.Review, 0)
	if err := r.db.SelectContext(ctx, &reviews, q, args...); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *repository) UpdateReview(ctx context.Context, id int, req model.UpdateReviewRequest) (model.Review, error) {
	q, args, err := qb.Update(reviewsTableName).
		Set("rating", req.Rating).
		Set("comment", req.Comment).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + reviewColumns).
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var review model.Review
	if err := r.db.GetContext(ctx, &review, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Review{}, errs.ErrNotFound
		}
		return model.Review{}, err
	}
	return review, nil
}

func (r *repository) DeleteReview(ctx context.Context, id int) error {
	return r.deleteByID(ctx, reviewsTableName, id)
}
