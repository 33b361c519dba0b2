package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is an opaque record identifier. The data service may send it as a
// JSON number or a string; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }

// Spiciness is an optional level that may be stored as a number or text.
// Zero, empty and null all mean "not set".
type Spiciness string

func (s *Spiciness) UnmarshalJSON(data []byte) error {
	v, err := scalarText(data)
	if err != nil {
		return err
	}
	if v == "0" {
		v = ""
	}
	*s = Spiciness(v)
	return nil
}

type Category struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type Dish struct {
	ID          ID               `json:"id"`
	CategoryID  ID               `json:"category_id"`
	Name        string           `json:"name"`
	Composition string           `json:"composition"`
	Description string           `json:"description"`
	Allergens   string           `json:"allergens"`
	Features    string           `json:"features"` // comma separated
	Spiciness   Spiciness        `json:"spiciness"`
	Price       *decimal.Decimal `json:"price"`
	PhotoFileID string           `json:"photo_file_id"` // URL or Telegram file id
	SortOrder   int              `json:"sort_order"`
	IsAvailable bool             `json:"is_available"`
}

// scalarText returns the text of a JSON string or number; null yields "".
func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
