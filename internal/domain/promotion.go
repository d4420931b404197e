package domain

type PromotionKind string

const (
	PromotionPercent PromotionKind = "percent"
	PromotionFixed   PromotionKind = "fixed"
)

type Promotion struct {
	Code     string        `json:"code"`
	Discount int64         `json:"discount"`
	Kind     PromotionKind `json:"kind"`
}
