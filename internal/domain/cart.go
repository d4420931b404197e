package domain

// LineItem is the projection of any purchasable item that the cart stores.
type LineItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Price       int64  `json:"price"`
}

type CartLine struct {
	LineItem
	Quantity int `json:"quantity"`
}

func (l CartLine) Total() int64 {
	return l.Price * int64(l.Quantity)
}
