package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAlumni RoleType = "alumni"
	RoleAdmin  RoleType = "admin"
)

// IsValid reports whether the role is known
func (r RoleType) IsValid() bool {
	return r == RoleAlumni || r == RoleAdmin
}

// PaymentMethod enumerates accepted donation payment methods
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentUPI          PaymentMethod = "upi"
	PaymentNetBanking   PaymentMethod = "netbanking"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentPayPal       PaymentMethod = "paypal"
)

// PaymentMethods lists the accepted methods in display order
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentUPI, PaymentNetBanking, PaymentBankTransfer, PaymentPayPal}

// DonationStatus tracks payment reconciliation
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// JobType enumerates job posting kinds
type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobContract   JobType = "contract"
	JobInternship JobType = "internship"
)

// JobTypes lists the accepted job types in display order
var JobTypes = []JobType{JobFullTime, JobPartTime, JobContract, JobInternship}

// ApplicationStatus tracks a job application
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationAccepted  ApplicationStatus = "accepted"
)

// RegistrationStatus tracks an event registration
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)
