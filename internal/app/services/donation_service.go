package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/sanitize"
	"github.com/yigit/alumnihub/internal/pkg/validation"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// DonationService defines donation operations
type DonationService interface {
	Donate(ctx context.Context, userID int64, req *dto.DonationRequest) (*models.Donation, error)
	MyDonations(ctx context.Context, userID int64) ([]*models.Donation, error)
	MonthlyStats(ctx context.Context) ([]models.MonthlyDonation, error)
	TotalDonations(ctx context.Context) (float64, error)
	UpdateStatus(ctx context.Context, id int64, status models.DonationStatus) (*models.Donation, error)
}

type donationServiceImpl struct {
	donationRepo repositories.IDonationRepository
	notifier     Notifier
	logger       zerolog.Logger
	now          func() time.Time
}

// NewDonationService creates a new DonationService
func NewDonationService(donationRepo repositories.IDonationRepository, notifier Notifier, logger zerolog.Logger) DonationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &donationServiceImpl{
		donationRepo: donationRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// NewTransactionID builds "TXN" + UTC timestamp + 6 random hex characters
func NewTransactionID(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}
	return "TXN" + now.UTC().Format("20060102150405") + hex.EncodeToString(buf), nil
}

func (s *donationServiceImpl) Donate(ctx context.Context, userID int64, req *dto.DonationRequest) (*models.Donation, error) {
	if err := validation.ValidateDonationAmount(req.Amount); err != nil {
		return nil, err
	}
	method, err := validation.ValidatePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	txnID, err := NewTransactionID(now)
	if err != nil {
		return nil, err
	}

	donation := &models.Donation{
		UserID:        userID,
		Amount:        req.Amount,
		Purpose:       sanitize.Text(req.Purpose),
		PaymentMethod: method,
		TransactionID: txnID,
		Status:        models.DonationPending,
		CreatedAt:     now,
	}
	if _, err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("transactionID", txnID).Float64("amount", req.Amount).Msg("Donation recorded")
	s.notifier.Notify(websocket.EventDonationCreated, map[string]interface{}{
		"id":            donation.ID,
		"userId":        userID,
		"amount":        donation.Amount,
		"transactionId": txnID,
	})
	return donation, nil
}

func (s *donationServiceImpl) MyDonations(ctx context.Context, userID int64) ([]*models.Donation, error) {
	return s.donationRepo.ListByUser(ctx, userID)
}

func (s *donationServiceImpl) MonthlyStats(ctx context.Context) ([]models.MonthlyDonation, error) {
	return s.donationRepo.MonthlyTotals(ctx)
}

func (s *donationServiceImpl) TotalDonations(ctx context.Context) (float64, error) {
	return s.donationRepo.Total(ctx)
}

func (s *donationServiceImpl) UpdateStatus(ctx context.Context, id int64, status models.DonationStatus) (*models.Donation, error) {
	switch status {
	case models.DonationPending, models.DonationCompleted, models.DonationFailed:
	default:
		return nil, fmt.Errorf("%w: Unknown donation status %q.", apperrors.ErrValidationFailed, status)
	}

	if err := s.donationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("donationID", id).Str("status", string(status)).Msg("Donation status updated")
	return s.donationRepo.GetByID(ctx, id)
}
