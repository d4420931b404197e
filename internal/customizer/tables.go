package customizer

import "github.com/fjod/go_pizza/internal/domain"

// Ingredients is the constructor's ingredient table in display order.
var Ingredients = []domain.Ingredient{
	{ID: "tomato-sauce", Name: "Tomato sauce", Emoji: "🍅", Price: 0, Category: domain.IngredientSauce},
	{ID: "white-sauce", Name: "Cream sauce", Emoji: "🥛", Price: 50, Category: domain.IngredientSauce},
	{ID: "bbq-sauce", Name: "BBQ sauce", Emoji: "🍖", Price: 50, Category: domain.IngredientSauce},

	{ID: "mozzarella", Name: "Mozzarella", Emoji: "🧀", Price: 100, Category: domain.IngredientCheese},
	{ID: "parmesan", Name: "Parmesan", Emoji: "🧀", Price: 120, Category: domain.IngredientCheese},
	{ID: "cheddar", Name: "Cheddar", Emoji: "🧀", Price: 110, Category: domain.IngredientCheese},
	{ID: "gorgonzola", Name: "Gorgonzola", Emoji: "🧀", Price: 130, Category: domain.IngredientCheese},

	{ID: "pepperoni", Name: "Pepperoni", Emoji: "🌶️", Price: 150, Category: domain.IngredientMeat},
	{ID: "bacon", Name: "Bacon", Emoji: "🥓", Price: 140, Category: domain.IngredientMeat},
	{ID: "chicken", Name: "Chicken", Emoji: "🍗", Price: 130, Category: domain.IngredientMeat},
	{ID: "beef", Name: "Beef", Emoji: "🥩", Price: 160, Category: domain.IngredientMeat},
	{ID: "ham", Name: "Ham", Emoji: "🥓", Price: 120, Category: domain.IngredientMeat},
	{ID: "sausage", Name: "Sausages", Emoji: "🌭", Price: 140, Category: domain.IngredientMeat},

	{ID: "mushrooms", Name: "Mushrooms", Emoji: "🍄", Price: 80, Category: domain.IngredientVegetable},
	{ID: "tomatoes", Name: "Tomatoes", Emoji: "🍅", Price: 60, Category: domain.IngredientVegetable},
	{ID: "peppers", Name: "Bell pepper", Emoji: "🫑", Price: 70, Category: domain.IngredientVegetable},
	{ID: "onion", Name: "Red onion", Emoji: "🧅", Price: 50, Category: domain.IngredientVegetable},
	{ID: "olives", Name: "Olives", Emoji: "🫒", Price: 80, Category: domain.IngredientVegetable},
	{ID: "corn", Name: "Corn", Emoji: "🌽", Price: 60, Category: domain.IngredientVegetable},
	{ID: "jalapeno", Name: "Jalapeño", Emoji: "🌶️", Price: 70, Category: domain.IngredientVegetable},
	{ID: "pineapple", Name: "Pineapple", Emoji: "🍍", Price: 90, Category: domain.IngredientVegetable},

	{ID: "basil", Name: "Basil", Emoji: "🌿", Price: 40, Category: domain.IngredientOther},
	{ID: "oregano", Name: "Oregano", Emoji: "🌿", Price: 30, Category: domain.IngredientOther},
	{ID: "garlic", Name: "Garlic", Emoji: "🧄", Price: 40, Category: domain.IngredientOther},
	{ID: "egg", Name: "Egg", Emoji: "🥚", Price: 50, Category: domain.IngredientOther},
}

type SizeInfo struct {
	Size  domain.Size `json:"size"`
	Label string      `json:"label"`
	Price int64       `json:"price"`
}

type DoughInfo struct {
	Dough domain.Dough `json:"dough"`
	Label string       `json:"label"`
	Price int64        `json:"price"`
}

var Sizes = []SizeInfo{
	{Size: domain.SizeSmall, Label: "25 cm", Price: 300},
	{Size: domain.SizeMedium, Label: "30 cm", Price: 450},
	{Size: domain.SizeLarge, Label: "35 cm", Price: 600},
}

var Doughs = []DoughInfo{
	{Dough: domain.DoughThin, Label: "Thin", Price: 0},
	{Dough: domain.DoughThick, Label: "Thick", Price: 100},
}

var ingredientIndex = make(map[string]int, len(Ingredients))

func init() {
	for i, ing := range Ingredients {
		ingredientIndex[ing.ID] = i
	}
}

// Lookup finds an ingredient by id.
func Lookup(id string) (domain.Ingredient, bool) {
	i, ok := ingredientIndex[id]
	if !ok {
		return domain.Ingredient{}, false
	}
	return Ingredients[i], true
}

func sizeInfo(s domain.Size) (SizeInfo, bool) {
	for _, info := range Sizes {
		if info.Size == s {
			return info, true
		}
	}
	return SizeInfo{}, false
}

func doughInfo(d domain.Dough) (DoughInfo, bool) {
	for _, info := range Doughs {
		if info.Dough == d {
			return info, true
		}
	}
	return DoughInfo{}, false
}
