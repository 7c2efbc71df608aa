package service

import (
	"context"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
)

func (s *Service) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	return s.repo.CreateReview(ctx, req, s.now())
}

func (s *Service) GetReview(ctx context.Context, id int) (model.Review, error) {
	return s.repo.GetReview(ctx, id)
}

func (s *Service) ListBookReviews(ctx context.Context, bookID int) ([]model.Review, error) {
	return s.repo.ListBookReviews(ctx, bookID)
}

// UpdateReview only lets the review's author change it.
func (s *Service) UpdateReview(ctx context.Context, userID, id int, req model.UpdateReviewRequest) (model.Review, error) {
	review, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return model.Review{}, err
	}
	if review.UserID != userID {
		return model.Review{}, errs.ErrForbidden
	}
	return s.repo.UpdateReview(ctx, id, req)
}

func (s *Service) DeleteReview(ctx context.Context, userID, id int) error {
	review, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return errs.ErrForbidden
	}
	return s.repo.DeleteReview(ctx, id)
}

func (s *Service) ListNotifications(ctx context.Context, userID int) ([]model.Notification, error) {
	return s.repo.ListAndMarkReadNotifications(ctx, userID, s.now())
}
