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

const userColumns = `id, username, password_hash, email, phone, address, role, created_at`

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("username", "password_hash", "email", "phone", "address", "role").
		Values(user.Username, user.PasswordHash, user.Email, user.Phone, user.Address, user.Role).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrDuplicate
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) SaveRefreshToken(ctx context.Context, jti string, userID int, expiresAt time.Time) error {
	q, args, err := qb.Insert(refreshTokensTableName).
		Columns("jti", "user_id", "expires_at").
		Values(jti, userID, expiresAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) RevokeRefreshToken(ctx context.Context, jti string) error {
	q, args, err := qb.Update(refreshTokensTableName).
		Set("revoked", true).
		Where(sq.Eq{"jti": jti}).
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

	// opportunistic cleanup of expired rows
	q, args, err = qb.Delete(refreshTokensTableName).
		Where(sq.Lt{"expires_at": time.Now()}).
		ToSql()
	if err == nil {
		_, _ = r.db.ExecContext(ctx, q, args...) //nolint:errcheck
	}
	return nil
}

func (r *repository) IsRefreshTokenRevoked(ctx context.Context, jti string) (bool, error) {
	q, args, err := qb.Select("revoked").
		From(refreshTokensTableName).
		Where(sq.Eq{"jti": jti}).
		ToSql()
	if err != nil {
		return false, err
	}
	var revoked bool
	if err := r.db.GetContext(ctx, &revoked, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// unknown JTI counts as revoked
			return true, nil
		}
		return false, err
	}
	return revoked, nil
}
