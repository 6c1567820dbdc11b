package models

import "time"

type DriverProfile struct {
	UserID             int64      `json:"user_id"`
	LicenseNumber      string     `json:"license_number"`
	LicenseExpiry      *time.Time `json:"license_expiry"`
	LicenseDocumentURL string     `json:"license_document_url"`
	YearsExperience    int        `json:"years_experience"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CenterProfile struct {
	UserID             int64     `json:"user_id"`
	BusinessName       string    `json:"business_name"`
	Address            string    `json:"address"`
	RegistrationNumber string    `json:"registration_number"`
	DocumentURL        string    `json:"document_url"`
	OpensAt            string    `json:"opens_at"`
	ClosesAt           string    `json:"closes_at"`
	CreatedAt          time.Time `json:"created_at"`
}
