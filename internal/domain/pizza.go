package domain

type IngredientCategory string

const (
	IngredientSauce     IngredientCategory = "sauce"
	IngredientCheese    IngredientCategory = "cheese"
	IngredientMeat      IngredientCategory = "meat"
	IngredientVegetable IngredientCategory = "vegetable"
	IngredientOther     IngredientCategory = "other"
)

type Ingredient struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Emoji    string             `json:"emoji"`
	Price    int64              `json:"price"`
	Category IngredientCategory `json:"category"`
}

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type Dough string

const (
	DoughThin  Dough = "thin"
	DoughThick Dough = "thick"
)

// CustomPizza is the one-off menu entry derived from a customization session.
type CustomPizza struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Emoji         string   `json:"emoji"`
	Price         int64    `json:"price"`
	Size          Size     `json:"size"`
	Dough         Dough    `json:"dough"`
	IngredientIDs []string `json:"ingredient_ids"`
}
