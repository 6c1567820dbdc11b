package models

import "time"

type Vehicle struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	PlateNumber string    `json:"plate_number"`
	Color       string    `json:"color"`
	DocumentURL string    `json:"document_url"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}
