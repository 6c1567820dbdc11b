package models

import "time"

type TripStatus string

const (
	TripOpen       TripStatus = "open"
	TripAccepted   TripStatus = "accepted"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// Trip is a ride request. AssignedDriverID is non-nil exactly while the
// status is accepted, in_progress or completed; it is written once, by the
// driver that won the claim, and never reassigned.
type Trip struct {
	ID               int64      `json:"id"`
	OwnerID          int64      `json:"owner_id"`
	PickupAddress    string     `json:"pickup_address"`
	DropoffAddress   string     `json:"dropoff_address"`
	PickupLat        float64    `json:"pickup_lat"`
	PickupLng        float64    `json:"pickup_lng"`
	DropoffLat       float64    `json:"dropoff_lat"`
	DropoffLng       float64    `json:"dropoff_lng"`
	Price            int64      `json:"price"`
	Currency         string     `json:"currency"`
	Note             string     `json:"note"`
	Status           TripStatus `json:"status"`
	AssignedDriverID *int64     `json:"assigned_driver_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
