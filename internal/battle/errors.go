package battle

import "fmt"

// ErrInvalidPayload :
// Indicates that a unit or weapon record supplied by the caller is
// missing a mandatory field or could not be interpreted.
var ErrInvalidPayload = fmt.Errorf("invalid unit or weapon payload")

// ErrUnitNotFound :
// Indicates that an operation referenced a unit id that does not
// exist in the owning battle.
var ErrUnitNotFound = fmt.Errorf("unit not found in battle")

// ErrDuplicateUnit :
// Indicates that a unit id supplied to add_unit already exists in
// the battle.
var ErrDuplicateUnit = fmt.Errorf("unit already exists in battle")
