package models

import "time"

// Donation is a contribution made by a user
type Donation struct {
	ID            int64          `json:"id" db:"id"`
	UserID        int64          `json:"userId" db:"user_id"`
	Amount        float64        `json:"amount" db:"amount" example:"100.00"`
	Purpose       string         `json:"purpose" db:"purpose" example:"Scholarship fund"`
	PaymentMethod PaymentMethod  `json:"paymentMethod" db:"payment_method" example:"card"`
	TransactionID string         `json:"transactionId" db:"transaction_id" example:"TXN20240101120000a1b2c3"`
	Status        DonationStatus `json:"status" db:"status" example:"pending"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}

// MonthlyDonation is the donation total of one calendar month
type MonthlyDonation struct {
	Month string  `json:"month" example:"2024-05"`
	Total float64 `json:"total" example:"1250.50"`
}
