package domain

type User struct {
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	BonusBalance int64  `json:"bonus_balance"`
}
