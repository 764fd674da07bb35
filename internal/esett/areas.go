package esett

import "errors"

// ErrUnknownArea marks requests for an MBA short code with no EIC mapping.
// It is checked before any store or upstream access happens.
var ErrUnknownArea = errors.New("unknown market balance area")

// areaEIC maps MBA short codes to the EIC identifiers the eSett API expects.
var areaEIC = map[string]string{
	"SE1": "10Y1001A1001A44P",
	"SE2": "10Y1001A1001A45N",
	"SE3": "10Y1001A1001A46L",
	"SE4": "10Y1001A1001A47J",
	"FI":  "10YFI-1--------U",
	"NO1": "10YNO-1--------2",
	"NO2": "10YNO-2--------T",
	"NO3": "10YNO-3--------J",
	"NO4": "10YNO-4--------9",
	"NO5": "10Y1001A1001A48H",
	"DK1": "10YDK-1--------W",
	"DK2": "10YDK-2--------M",
}

// EIC translates an MBA short code to its EIC identifier.
func EIC(mba string) (string, bool) {
	code, ok := areaEIC[mba]
	return code, ok
}

// KnownArea reports whether the MBA short code has an EIC mapping.
func KnownArea(mba string) bool {
	_, ok := areaEIC[mba]
	return ok
}
