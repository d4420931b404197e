package domain

import (
	"errors"
	"fmt"
)

type Category string

const (
	CategoryPizza Category = "pizza"
	CategorySnack Category = "snack"
	CategoryDrink Category = "drink"
	CategoryCombo Category = "combo"
)

var ErrUnknownCategory = errors.New("unknown category")

// Categories lists menu sections in display order.
var Categories = []Category{CategoryPizza, CategorySnack, CategoryDrink, CategoryCombo}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// CatalogItem is a purchasable menu entry. Prices are whole currency units.
type CatalogItem struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Price       int64    `json:"price" db:"price"`
	Emoji       string   `json:"emoji" db:"emoji"`
	Category    Category `json:"category" db:"category"`
	Rating      *float64 `json:"rating,omitempty" db:"rating"`
	Popular     bool     `json:"popular,omitempty" db:"popular"`
}

type Review struct {
	ID       int64  `json:"id" db:"id"`
	UserName string `json:"user_name" db:"user_name"`
	Rating   int    `json:"rating" db:"rating"`
	Comment  string `json:"comment" db:"comment"`
	Date     string `json:"date" db:"review_date"`
}
