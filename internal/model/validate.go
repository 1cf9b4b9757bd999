package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNameLength is the longest accepted entity name, in runes.
const MaxNameLength = 120

// ValidationError reports an invalid field before anything is persisted.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NormalizeName trims surrounding whitespace and collapses inner runs of it.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func validateName(name string) error {
	if NormalizeName(name) == "" {
		return invalid("name", "Name darf nicht leer sein")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name", fmt.Sprintf("Name darf höchstens %d Zeichen lang sein", MaxNameLength))
	}
	return nil
}

func validateValue(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "Wert darf nicht negativ sein")
	}
	return nil
}

// ParseAmount parses a user-entered currency amount. Both "12.50" and the
// German "12,50" are accepted; empty input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("estimated_value", "Ungültiger Betrag")
	}
	if err := validateValue("estimated_value", v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// ValidateRoom checks a room before it is saved.
func ValidateRoom(in RoomInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return invalid("type", "Unbekannter Raumtyp")
	}
	if in.ColorTag != "" && !ValidColorTag(in.ColorTag) {
		return invalid("color_tag", "Unbekannte Farbe")
	}
	return nil
}

// ValidateBox checks a box before it is saved.
func ValidateBox(in BoxInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return invalid("priority", "Unbekannte Priorität")
	}
	return validateValue("estimated_value", in.EstimatedValue)
}

// ValidateItem checks an item before it is saved.
func ValidateItem(in ItemInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if in.Category != "" && !in.Category.Valid() {
		return invalid("category", "Unbekannte Kategorie")
	}
	return validateValue("estimated_value", in.EstimatedValue)
}

// Normalize returns a copy of in with a trimmed name and defaults applied.
func (in RoomInput) Normalize() RoomInput {
	in.Name = NormalizeName(in.Name)
	if in.Type == "" {
		in.Type = RoomOther
	}
	if in.ColorTag == "" {
		in.ColorTag = DefaultColorTag
	}
	return in
}

// Normalize returns a copy of in with a trimmed name.
func (in BoxInput) Normalize() BoxInput {
	in.Name = NormalizeName(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// Normalize returns a copy of in with a trimmed name and the default category.
func (in ItemInput) Normalize() ItemInput {
	in.Name = NormalizeName(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Category == "" {
		in.Category = CategoryOther
	}
	return in
}

// NewMissingParentError reports that the owning entity does not exist.
func NewMissingParentError(field string) *ValidationError {
	return invalid(field, "Übergeordnetes Element existiert nicht")
}
