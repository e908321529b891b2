package exceltable

import (
	"errors"
)

// ErrInvalidSheetName is returned when writing a sheet
// with a name that Excel does not accept, for example
// a name longer than 31 characters or containing one of :\/?*[]
//
// The excelize error describing the problem is wrapped too:
//
//	if errors.Is(err, exceltable.ErrInvalidSheetName) {
//	    fmt.Println("choose another sheet name:", err)
//	}
var ErrInvalidSheetName = errors.New("invalid sheet name")
