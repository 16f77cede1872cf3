package domain

import "time"

// Appointment 预约
type Appointment struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Type       string    `json:"type"`
	DoctorName string    `json:"doctorName"`
	Location   string    `json:"location,omitempty"`
	Date       time.Time `json:"date"`
	Duration   int       `json:"duration"` // minutes
	Status     string    `json:"status"`   // scheduled | completed | cancelled
}

const AppointmentScheduled = "scheduled"
