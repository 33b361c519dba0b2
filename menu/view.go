package menu

import (
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-menu/lang"
	"restaurant-menu/models"
)

const (
	SpicyGlyph       = "🌶"
	PlaceholderGlyph = "📷"
)

type Tab struct {
	ID     models.ID
	Name   string
	Active bool
}

// Card is one cell of the dish grid. Text fields are raw; the surface that
// renders them is responsible for escaping.
type Card struct {
	DishID      models.ID
	Image       string // empty means the placeholder glyph
	Name        string
	Composition string
	Badges      []string
	Price       string
}

type Detail struct {
	DishID      models.ID
	Image       string
	Name        string
	Composition string
	Description string
	Allergens   string
	Badges      []string
	Price       string
}

type GridKind int

const (
	GridCards GridKind = iota
	GridEmpty
	GridError
)

type Grid struct {
	Kind    GridKind
	Cards   []Card
	Message string // placeholder or error text for GridEmpty/GridError
}

// Features builds the badge list of a dish: the spiciness badge first, then
// every non-empty comma separated feature in order.
func Features(d models.Dish) []string {
	var out []string
	if d.Spiciness != "" {
		out = append(out, SpicyGlyph+" "+string(d.Spiciness))
	}
	for _, f := range strings.Split(d.Features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FormatPrice renders "<value> <currency>". A nil or zero price is reported
// as not set.
func FormatPrice(p *decimal.Decimal, currency string) (string, bool) {
	if p == nil || p.IsZero() {
		return "", false
	}
	return p.String() + " " + currency, true
}

// View turns dishes into display instructions for one language and currency.
type View struct {
	Lang     string
	Currency string
}

func (v View) Price(p *decimal.Decimal) string {
	if s, ok := FormatPrice(p, v.Currency); ok {
		return s
	}
	return lang.T(v.Lang, "price_not_set")
}

func (v View) Card(d models.Dish) Card {
	return Card{
		DishID:      d.ID,
		Image:       strings.TrimSpace(d.PhotoFileID),
		Name:        d.Name,
		Composition: d.Composition,
		Badges:      Features(d),
		Price:       v.Price(d.Price),
	}
}

func (v View) Detail(d models.Dish) Detail {
	return Detail{
		DishID:      d.ID,
		Image:       strings.TrimSpace(d.PhotoFileID),
		Name:        d.Name,
		Composition: d.Composition,
		Description: d.Description,
		Allergens:   d.Allergens,
		Badges:      Features(d),
		Price:       v.Price(d.Price),
	}
}

func (g Grid) IsEmpty() bool { return g.Kind == GridEmpty }

func (g Grid) IsError() bool { return g.Kind == GridError }
