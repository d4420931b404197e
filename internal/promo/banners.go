package promo

type Banner struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Code        string `json:"code,omitempty"`
}

var banners = []Banner{
	{ID: 1, Title: "Happy hours 14:00-16:00", Description: "20% off the whole order", Emoji: "⏰", Code: "PIZZA20"},
	{ID: 2, Title: "Free delivery!", Description: "Delivery is free for orders from 1000", Emoji: "🚚"},
	{ID: 3, Title: "New combo for 650!", Description: "Pizza + drink + snack", Emoji: "🎁"},
	{ID: 4, Title: "Welcome gift", Description: "300 off your first order", Emoji: "👋", Code: "NEWUSER"},
	{ID: 5, Title: "Collect bonuses", Description: "10% of every order goes back to your bonus balance", Emoji: "🪙"},
}

// Banners returns the storefront promo banners.
func Banners() []Banner {
	out := make([]Banner, len(banners))
	copy(out, banners)
	return out
}
