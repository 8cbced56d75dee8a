package entities

import (
	"fmt"
	"strings"
)

// Quantity represents a whole number of stock units
type Quantity int64

// Unit is the unit of measure an article is counted in
type Unit string

const (
	UnitPiece    Unit = "st"
	UnitKilogram Unit = "kg"
)

// Article represents an item of the procurement catalog
type Article struct {
	ID          string `validate:"required"`
	Code        string `validate:"required"`
	Description string `validate:"required"`
	Group       string `validate:"required"`
	Subgroup    string
	Packaging   string
	Unit        Unit `validate:"oneof=st kg"`
	Brand       string
	EANCode     string `validate:"omitempty,numeric,len=13"`
	Intrastat   string `validate:"omitempty,numeric,len=8"`
	Blocked     bool
}

// NewArticle creates a validated Article
func NewArticle(id, code, description, group, subgroup, packaging string, unit Unit, brand, ean, intrastat string, blocked bool) (*Article, error) {
	article := &Article{
		ID:          strings.TrimSpace(id),
		Code:        strings.ToUpper(strings.TrimSpace(code)),
		Description: strings.TrimSpace(description),
		Group:       strings.TrimSpace(group),
		Subgroup:    strings.TrimSpace(subgroup),
		Packaging:   strings.TrimSpace(packaging),
		Unit:        unit,
		Brand:       strings.TrimSpace(brand),
		EANCode:     strings.TrimSpace(ean),
		Intrastat:   strings.TrimSpace(intrastat),
		Blocked:     blocked,
	}
	if err := Validate(article); err != nil {
		return nil, fmt.Errorf("article %q: %w", id, err)
	}
	return article, nil
}

// ParseUnit converts a unit of measure label into a Unit
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "st", "pcs", "ea":
		return UnitPiece, nil
	case "kg":
		return UnitKilogram, nil
	default:
		return "", fmt.Errorf("unknown unit of measure: %q", s)
	}
}
