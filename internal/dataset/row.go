package dataset

import (
	"fmt"
	"time"
)

// Range is a half-open UTC interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start; non-positive for degenerate ranges.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Row is one normalized record ready for the store. Group is the optional
// MGA code: nil means the record carries none. Values maps column names to
// *float64 or *string depending on the column kind, nil pointers for absent
// upstream values.
type Row struct {
	Time   time.Time
	Area   string
	Group  *string
	Values map[string]any
}

// Normalize converts the raw eSett payload into store-ready rows. A record
// without a string timestampUTC fails the whole batch; there is no partial
// tolerance. Absent or non-numeric/non-string values map to nil pointers.
func Normalize(ds Descriptor, area string, raw []map[string]any) ([]Row, error) {
	rows := make([]Row, 0, len(raw))
	for _, rec := range raw {
		ts, ok := rec["timestampUTC"].(string)
		if !ok {
			return nil, fmt.Errorf("%s record missing timestampUTC: %v", ds.Name, rec)
		}
		t, err := parseUpstreamTime(ts)
		if err != nil {
			return nil, fmt.Errorf("parse %s timestampUTC %q: %w", ds.Name, ts, err)
		}

		row := Row{
			Time:   t.UTC(),
			Area:   area,
			Values: make(map[string]any, len(ds.Columns)),
		}

		if ds.HasGroup {
			if g, ok := rec["mgaCode"].(string); ok && g != "" {
				row.Group = &g
			}
		}

		for _, col := range ds.Columns {
			switch col.Kind {
			case Numeric:
				var v *float64
				if f, ok := rec[col.UpstreamKey].(float64); ok {
					v = &f
				}
				row.Values[col.Name] = v
			case Text:
				var v *string
				if s, ok := rec[col.UpstreamKey].(string); ok {
					v = &s
				}
				row.Values[col.Name] = v
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// parseUpstreamTime reads an eSett timestampUTC value. The field is not
// guaranteed to carry a zone suffix; zone-less values are UTC.
func parseUpstreamTime(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.ParseInLocation("2006-01-02T15:04:05", ts, time.UTC)
	}
	return t, nil
}

// Payload shapes a row for the JSON response: time, mba, the MGA code when
// the dataset has that dimension (null when absent), then every value column.
func Payload(ds Descriptor, r Row) map[string]any {
	out := make(map[string]any, len(ds.Columns)+3)
	out["time"] = r.Time
	out["mba"] = r.Area
	if ds.HasGroup {
		out["mga_code"] = r.Group
	}
	for _, col := range ds.Columns {
		out[col.Name] = r.Values[col.Name]
	}
	return out
}
