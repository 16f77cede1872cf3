package domain

import "time"

// HealthStats 用户当前健康快照（每个用户一条，由打点覆盖更新）
type HealthStats struct {
	ID                  int       `json:"id"`
	UserID              int       `json:"userId"`
	Date                time.Time `json:"date"`
	BloodPressure       string    `json:"bloodPressure,omitempty"`
	BloodPressureStatus string    `json:"bloodPressureStatus,omitempty"`
	HeartRate           int       `json:"heartRate"`
	HeartRateStatus     string    `json:"heartRateStatus,omitempty"`
	Steps               int       `json:"steps"`
	StepsGoal           int       `json:"stepsGoal"`
	HydrationGlasses    int       `json:"hydrationGlasses"`
	HydrationGoal       int       `json:"hydrationGoal"`
}

// HealthTracking 单次健康打点（timestamp, type, value），写入后刷新快照
type HealthTracking struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // bloodPressure | heartRate | steps | hydration
	Value     string    `json:"value"`
	Notes     string    `json:"notes,omitempty"`
}

// 打点指标类型
const (
	MetricBloodPressure = "bloodPressure"
	MetricHeartRate     = "heartRate"
	MetricSteps         = "steps"
	MetricHydration     = "hydration"
)
