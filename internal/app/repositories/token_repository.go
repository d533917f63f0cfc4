package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(database *db.DB) *TokenRepository {
	return &TokenRepository{
		db: database,
		sb: database.Builder(),
	}
}

// CreateToken stores a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	query, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked", "created_at").
		Values(token, userID, expiryDate.UTC().Truncate(time.Second), false, db.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if dberrors.IsUniqueViolation(err, "refresh_tokens.token") {
			logger.Warn().Int64("userID", userID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetToken retrieves a stored token regardless of its state
func (r *TokenRepository) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query, args, err := r.sb.Select("token", "user_id", "expiry_date", "is_revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get token query: %w", err)
	}

	t := &models.RefreshToken{}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&t.Token, &t.UserID, &t.ExpiryDate, &t.IsRevoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return t, nil
}

// ConsumeToken atomically revokes a valid token and returns its owner.
// A token can be consumed once; later calls report it as revoked.
func (r *TokenRepository) ConsumeToken(ctx context.Context, token string, now time.Time) (int64, error) {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token, "is_revoked": false}).
		Where(squirrel.Gt{"expiry_date": now.UTC()}).
		Suffix("RETURNING user_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build consume token query: %w", err)
	}

	var userID int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Error executing consume token query")
		return 0, fmt.Errorf("error consuming token: %w", err)
	}

	stored, err := r.GetToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if stored.IsRevoked {
		return 0, apperrors.ErrTokenRevoked
	}
	return 0, apperrors.ErrTokenExpired
}

// RevokeAllUserTokens revokes all tokens for a specific user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error building revoke all user tokens SQL")
		return fmt.Errorf("failed to build revoke all user tokens query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing revoke all user tokens query")
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens removes expired tokens and revoked tokens older than 30 days
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	query, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": now},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": now.Add(-30 * 24 * time.Hour)},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup tokens SQL")
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	deleted, _ := res.RowsAffected()
	logger.Info().Int64("deletedCount", deleted).Msg("Cleaned up expired/old revoked tokens")
	return deleted, nil
}
