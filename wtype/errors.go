package wtype

import "fmt"

func errUnsupportedValue(id TypeID, value any) error {
	return fmt.Errorf("wtype: value of type %T is not valid for wire type %s", value, id)
}

func errShortBuffer(id TypeID, want, got int) error {
	return fmt.Errorf("wtype: %s payload needs %d bytes, got %d", id, want, got)
}
