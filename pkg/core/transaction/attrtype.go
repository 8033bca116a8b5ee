package transaction

import "fmt"

// AttrType represents the purpose of the attribute.
type AttrType uint8

// List of valid attribute types.
const (
	HighPriority    AttrType = 1
	OracleResponseT AttrType = 0x11 // OracleResponse
)

// String implements the fmt.Stringer interface.
func (a AttrType) String() string {
	switch a {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	default:
		return fmt.Sprintf("AttrType(%d)", uint8(a))
	}
}

func attrTypeFromString(s string) (AttrType, bool) {
	switch s {
	case HighPriority.String():
		return HighPriority, true
	case OracleResponseT.String():
		return OracleResponseT, true
	default:
		return 0, false
	}
}
