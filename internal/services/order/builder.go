package order

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/services/catalog"
	"restaurant-pos/internal/services/ingredient"
)

// Selection tracks the ingredient changes of one line. An id is never both
// removed and added.
type Selection struct {
	removed map[int64]bool
	added   map[int64]bool
}

func NewSelection() *Selection {
	return &Selection{removed: map[int64]bool{}, added: map[int64]bool{}}
}

// SelectionOf builds a selection from explicit id lists.
func SelectionOf(removed, added []int64) (*Selection, error) {
	s := NewSelection()
	for _, id := range removed {
		s.removed[id] = true
	}
	for _, id := range added {
		if s.removed[id] {
			return nil, apperr.Invalid("added", fmt.Sprintf("ingredient %d is both removed and added", id))
		}
		s.added[id] = true
	}
	return s, nil
}

// Remove takes back an addition, or else marks the ingredient removed.
func (s *Selection) Remove(id int64) {
	if s.added[id] {
		delete(s.added, id)
		return
	}
	s.removed[id] = true
}

// Add takes back a removal, or else marks the ingredient added.
func (s *Selection) Add(id int64) {
	if s.removed[id] {
		delete(s.removed, id)
		return
	}
	s.added[id] = true
}

func (s *Selection) Removed() []int64 { return sortedIDs(s.removed) }

func (s *Selection) Added() []int64 { return sortedIDs(s.added) }

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildLine prices one product in one size. The unit price is the base price
// plus the surcharge of every added ingredient; removals are free. Quantity
// below 1 becomes 1.
func BuildLine(option *catalog.ProductOption, sheet *ingredient.PriceSheet, sel *Selection, quantity int) (models.OrderLine, error) {
	if option.Size.CategoryID != option.Product.CategoryID {
		return models.OrderLine{}, apperr.Invalid("size_id",
			fmt.Sprintf("size %q is not offered for %q", option.Size.Name, option.Product.Name))
	}
	if !option.HasPrice {
		return models.OrderLine{}, apperr.Invalid("size_id",
			fmt.Sprintf("%q has no price in size %q", option.Product.Name, option.Size.Name))
	}
	if quantity < 1 {
		quantity = 1
	}

	line := models.OrderLine{
		ProductID:   option.Product.ID,
		ProductName: option.Product.Name,
		SizeID:      option.Size.ID,
		SizeName:    option.Size.Name,
		BasePrice:   option.BasePrice,
		Quantity:    quantity,
		Removed:     []models.Modification{},
		Added:       []models.Modification{},
	}

	for _, id := range sel.Removed() {
		if !sheet.IsStandard(id) {
			return models.OrderLine{}, apperr.Invalid("removed",
				fmt.Sprintf("ingredient %d is not part of %q", id, option.Product.Name))
		}
		ing := sheet.Available[id]
		line.Removed = append(line.Removed, models.Modification{
			IngredientID:   id,
			IngredientName: ing.Name,
			Action:         models.Removed,
			Price:          decimal.Zero,
		})
	}

	unit := option.BasePrice
	for _, id := range sel.Added() {
		if sheet.IsStandard(id) {
			return models.OrderLine{}, apperr.Invalid("added",
				fmt.Sprintf("ingredient %d is already part of %q", id, option.Product.Name))
		}
		ing, ok := sheet.Available[id]
		if !ok {
			return models.OrderLine{}, apperr.Invalid("added", fmt.Sprintf("unknown ingredient %d", id))
		}
		price := sheet.Price(ing)
		unit = unit.Add(price)
		line.Added = append(line.Added, models.Modification{
			IngredientID:   id,
			IngredientName: ing.Name,
			Action:         models.Added,
			Price:          price,
		})
	}

	line.UnitPrice = unit
	return line, nil
}
