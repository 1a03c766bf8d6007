package domain

// DiscountType distinguishes percentage promotions from flat-amount ones.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFlat    DiscountType = "FLAT"
)

// Promotion is an entry from the external promotion catalog. At most one
// promotion is applied to a session at a time; the entry flagged IsDefault is
// auto-applied when the session is created.
type Promotion struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountPercent   float64      `json:"discount_percent,omitempty"`
	DiscountFlat      Cents        `json:"discount_flat,omitempty"`
	MaxDiscountAmount Cents        `json:"max_discount_amount,omitempty"` // 0 means uncapped
	Label             string       `json:"label"`
	IsDefault         bool         `json:"is_default"`
}
