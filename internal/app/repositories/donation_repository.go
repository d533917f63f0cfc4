package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// IDonationRepository defines the donation persistence operations
type IDonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Donation, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Donation, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Total(ctx context.Context) (float64, error)
	MonthlyTotals(ctx context.Context) ([]models.MonthlyDonation, error)
	UpdateStatus(ctx context.Context, id int64, status models.DonationStatus) error
}

var donationColumns = []string{
	"id", "user_id", "amount", "purpose", "payment_method", "transaction_id", "status", "created_at",
}

// DonationRepository handles donation database operations
type DonationRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(database *db.DB) *DonationRepository {
	return &DonationRepository{
		db: database,
		sb: database.Builder(),
	}
}

func scanDonation(row rowScanner) (*models.Donation, error) {
	d := &models.Donation{}
	if err := row.Scan(&d.ID, &d.UserID, &d.Amount, &d.Purpose, &d.PaymentMethod, &d.TransactionID, &d.Status, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

// Create inserts a donation and returns its ID
func (r *DonationRepository) Create(ctx context.Context, donation *models.Donation) (int64, error) {
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = db.Now()
	}
	if donation.Status == "" {
		donation.Status = models.DonationPending
	}

	query, args, err := r.sb.Insert("donations").
		Columns("user_id", "amount", "purpose", "payment_method", "transaction_id", "status", "created_at").
		Values(donation.UserID, donation.Amount, donation.Purpose, string(donation.PaymentMethod),
			donation.TransactionID, string(donation.Status), donation.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create donation SQL")
		return 0, fmt.Errorf("failed to build create donation query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err, "donations.transaction_id") {
			return 0, apperrors.NewConflictError("Duplicate transaction id")
		}
		logger.Error().Err(err).Int64("userID", donation.UserID).Msg("Error executing create donation query")
		return 0, fmt.Errorf("error creating donation: %w", err)
	}

	donation.ID = id
	return id, nil
}

// GetByID retrieves a donation by ID
func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*models.Donation, error) {
	query, args, err := r.sb.Select(donationColumns...).
		From("donations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get donation query: %w", err)
	}

	d, err := scanDonation(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrDonationNotFound
		}
		logger.Error().Err(err).Int64("donationID", id).Msg("Error scanning donation row")
		return nil, fmt.Errorf("error retrieving donation: %w", err)
	}
	return d, nil
}

// ListByUser returns the donations of a user, newest first
func (r *DonationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Donation, error) {
	query, args, err := r.sb.Select(donationColumns...).
		From("donations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list donations query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying donations")
		return nil, fmt.Errorf("error querying donations: %w", err)
	}
	defer rows.Close()

	donations := []*models.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning donation row: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// CountByUser counts the donations made by a user
func (r *DonationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("donations").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count donations query: %w", err)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting donations: %w", err)
	}
	return count, nil
}

// Total sums every donation amount; zero when there are none
func (r *DonationRepository) Total(ctx context.Context) (float64, error) {
	query, args, err := r.sb.Select("COALESCE(SUM(amount), 0)").From("donations").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build donation total query: %w", err)
	}

	var total float64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error summing donations")
		return 0, fmt.Errorf("error summing donations: %w", err)
	}
	return total, nil
}

// MonthlyTotals sums donations per calendar month, oldest month first
func (r *DonationRepository) MonthlyTotals(ctx context.Context) ([]models.MonthlyDonation, error) {
	month := r.db.MonthExpr("created_at")
	query, args, err := r.sb.Select(month+" AS month", "SUM(amount) AS total").
		From("donations").
		GroupBy(month).
		OrderBy("month ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly donations query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying monthly donations")
		return nil, fmt.Errorf("error querying monthly donations: %w", err)
	}
	defer rows.Close()

	stats := []models.MonthlyDonation{}
	for rows.Next() {
		var m models.MonthlyDonation
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, fmt.Errorf("error scanning monthly donation: %w", err)
		}
		stats = append(stats, m)
	}
	return stats, rows.Err()
}

// UpdateStatus changes the reconciliation status of a donation
func (r *DonationRepository) UpdateStatus(ctx context.Context, id int64, status models.DonationStatus) error {
	query, args, err := r.sb.Update("donations").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update donation status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("donationID", id).Msg("Error updating donation status")
		return fmt.Errorf("error updating donation status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrDonationNotFound
	}
	return nil
}
