package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atelier/backend/internal/domain/shared"
)

// MeasureUnit is a closed enumeration of the units of measure the system
// accepts. Stock is always stored in base units (milliliters, grams, or
// count); liters and kilograms exist only as display units on input.
type MeasureUnit string

const (
	UnitMilliliter MeasureUnit = "ml"
	UnitGram       MeasureUnit = "g"
	UnitCount      MeasureUnit = "unidade"
	UnitLiter      MeasureUnit = "litro"
	UnitKilogram   MeasureUnit = "kg"
)

// thousand converts liters to milliliters and kilograms to grams
var thousand = decimal.NewFromInt(1000)

// ParseMeasureUnit parses a unit code (case-insensitive).
// Accepts the common aliases "l" for liter and "un" for count.
func ParseMeasureUnit(code string) (MeasureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "ml":
		return UnitMilliliter, nil
	case "g", "grama", "gramas":
		return UnitGram, nil
	case "unidade", "un", "und":
		return UnitCount, nil
	case "litro", "litros", "l":
		return UnitLiter, nil
	case "kg", "quilo", "quilos":
		return UnitKilogram, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown unit of measure: %q", code))
}

// IsValid returns true if the unit is a member of the enumeration
func (u MeasureUnit) IsValid() bool {
	switch u {
	case UnitMilliliter, UnitGram, UnitCount, UnitLiter, UnitKilogram:
		return true
	}
	return false
}

// IsBase returns true if the unit is a storage (base) unit
func (u MeasureUnit) IsBase() bool {
	switch u {
	case UnitMilliliter, UnitGram, UnitCount:
		return true
	}
	return false
}

// BaseUnit returns the base unit stock is stored in for this unit
func (u MeasureUnit) BaseUnit() MeasureUnit {
	switch u {
	case UnitLiter:
		return UnitMilliliter
	case UnitKilogram:
		return UnitGram
	default:
		return u
	}
}

// String returns the unit code
func (u MeasureUnit) String() string {
	return string(u)
}

// ToBaseQuantity converts a quantity expressed in the given unit to the
// corresponding base-unit quantity. Liters and kilograms multiply by 1000;
// base units pass through unchanged. Unknown units are rejected.
func ToBaseQuantity(quantity decimal.Decimal, unit MeasureUnit) (decimal.Decimal, error) {
	switch unit {
	case UnitLiter, UnitKilogram:
		return quantity.Mul(thousand), nil
	case UnitMilliliter, UnitGram, UnitCount:
		return quantity, nil
	}
	return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown unit of measure: %q", unit))
}
