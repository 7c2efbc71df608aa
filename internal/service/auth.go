package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/pkg/auth"
)

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (auth.TokenPair, error) {
	role := auth.RoleMember
	if req.Role != "" {
		parsed, err := auth.ParseRole(req.Role)
		if err != nil {
			return auth.TokenPair{}, err
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.TokenPair{}, errors.Wrap(err, "hash password")
	}

	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         string(role),
	})
	if err != nil {
		return auth.TokenPair{}, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (auth.TokenPair, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return auth.TokenPair{}, errs.ErrBadCredentials
		}
		return auth.TokenPair{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenPair{}, errs.ErrBadCredentials
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token's JTI; the access token simply ages out.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := auth.ParseToken(refreshToken)
	if err != nil || claims.ID == "" {
		return errs.ErrBadCredentials
	}
	return s.repo.RevokeRefreshToken(ctx, claims.ID)
}

// Refresh rotates the pair: the presented refresh token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken)
	if err != nil || claims.ID == "" {
		return auth.TokenPair{}, errs.ErrBadCredentials
	}
	revoked, err := s.repo.IsRefreshTokenRevoked(ctx, claims.ID)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if revoked {
		return auth.TokenPair{}, errs.ErrBadCredentials
	}
	if err := s.repo.RevokeRefreshToken(ctx, claims.ID); err != nil {
		return auth.TokenPair{}, err
	}

	user, err := s.repo.GetUserByUsername(ctx, claims.Profile.Username)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) issueTokens(ctx context.Context, user model.User) (auth.TokenPair, error) {
	role, err := auth.ParseRole(user.Role)
	if err != nil {
		return auth.TokenPair{}, err
	}
	pair, jti, err := auth.NewTokenPair(auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role,
	})
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, jti, user.ID, time.Now().Add(auth.RefreshTokenTTL)); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}
