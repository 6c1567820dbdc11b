package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type WashBooking struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	CenterID    int64         `json:"center_id"`
	VehicleID   int64         `json:"vehicle_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Price       int64         `json:"price"`
	Note        string        `json:"note"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
