package domain

import "time"

// Reminder 提醒（created pending → completed；recurring 完成时派生下一条）
type Reminder struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Time             time.Time `json:"time"`
	Type             string    `json:"type"` // medicine | water | activity | appointment | other
	Icon             string    `json:"icon,omitempty"`
	Completed        bool      `json:"completed"`
	Recurring        bool      `json:"recurring"`
	RecurringPattern string    `json:"recurringPattern,omitempty"` // daily | weekdays | weekly | monthly
}

// 重复模式
const (
	PatternDaily    = "daily"
	PatternWeekdays = "weekdays"
	PatternWeekly   = "weekly"
	PatternMonthly  = "monthly"
)

// NextOccurrence 计算下一次触发时间。
// monthly 使用 AddDate 的自然规范化（1/31 +1月 → 3/2 或 3/3），与历史行为一致。
// 未知 pattern 返回原时间。
func NextOccurrence(t time.Time, pattern string) time.Time {
	switch pattern {
	case PatternDaily:
		return t.AddDate(0, 0, 1)
	case PatternWeekdays:
		next := t.AddDate(0, 0, 1)
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case PatternWeekly:
		return t.AddDate(0, 0, 7)
	case PatternMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t
	}
}
