// Package model defines the core timeline data types.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of activity categories a slot can carry.
// The numeric value is the persisted category code.
type Category int

const (
	Unknown Category = iota
	Commute
	Work
	Food
	Leisure
	Family
	Friends
	Fitness
	Hobby
	School
	Household
	Sleep
	Shopping
	Meeting
	Movies
)

var categoryNames = [...]string{
	Unknown:   "unknown",
	Commute:   "commute",
	Work:      "work",
	Food:      "food",
	Leisure:   "leisure",
	Family:    "family",
	Friends:   "friends",
	Fitness:   "fitness",
	Hobby:     "hobby",
	School:    "school",
	Household: "household",
	Sleep:     "sleep",
	Shopping:  "shopping",
	Meeting:   "meeting",
	Movies:    "movies",
}

// Categories returns every known category in code order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// ParseCategory resolves a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
