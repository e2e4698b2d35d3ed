package enum

// UnitType is the unit a stock item is counted in. There is no conversion
// between units anywhere in the engine.
type UnitType string

const (
	UnitTypeKG   UnitType = "KG"
	UnitTypeLTRS UnitType = "LTRS"
	UnitTypeEACH UnitType = "EACH"
	UnitTypePACK UnitType = "PACK"
)

// IsValid reports whether u is one of the supported units
func (u UnitType) IsValid() bool {
	switch u {
	case UnitTypeKG, UnitTypeLTRS, UnitTypeEACH, UnitTypePACK:
		return true
	}
	return false
}
