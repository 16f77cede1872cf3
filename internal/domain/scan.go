package domain

import "time"

// MedicineScan 药品扫描记录
type MedicineScan struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	MedicineName string    `json:"medicineName"`
	Dosage       string    `json:"dosage,omitempty"`
	Timing       string    `json:"timing,omitempty"`
	SideEffects  []string  `json:"sideEffects"`
	ScannedAt    time.Time `json:"scannedAt"`
}
