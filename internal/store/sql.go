package store

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jsundin/esett-proxy/internal/dataset"
)

// keyColumns returns the identity-key columns in order. The MGA code is part
// of the key only for the grouped dataset.
func keyColumns(ds dataset.Descriptor) []string {
	if ds.HasGroup {
		return []string{"time", "mba", "mga_code"}
	}
	return []string{"time", "mba"}
}

func selectColumns(ds dataset.Descriptor) []string {
	cols := keyColumns(ds)
	for _, col := range ds.Columns {
		cols = append(cols, col.Name)
	}
	return cols
}

func createTableSQL(ds dataset.Descriptor) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(ds.Table)
	b.WriteString(" (\n    time TIMESTAMPTZ NOT NULL,\n    mba TEXT NOT NULL")
	if ds.HasGroup {
		b.WriteString(",\n    mga_code TEXT NOT NULL DEFAULT ''")
	}
	for _, col := range ds.Columns {
		b.WriteString(",\n    ")
		b.WriteString(col.Name)
		if col.Kind == dataset.Numeric {
			b.WriteString(" DOUBLE PRECISION")
		} else {
			b.WriteString(" TEXT")
		}
	}
	b.WriteString(",\n    PRIMARY KEY (")
	b.WriteString(strings.Join(keyColumns(ds), ", "))
	b.WriteString(")\n)")
	return b.String()
}

func insertSQL(ds dataset.Descriptor) string {
	cols := selectColumns(ds)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	return "INSERT INTO " + ds.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") ON CONFLICT DO NOTHING"
}

func insertArgs(ds dataset.Descriptor, row dataset.Row) []any {
	args := []any{row.Time, row.Area}
	if ds.HasGroup {
		args = append(args, groupValue(row.Group))
	}
	for _, col := range ds.Columns {
		args = append(args, row.Values[col.Name])
	}
	return args
}

func scanRow(ds dataset.Descriptor, rows pgx.Rows) (dataset.Row, error) {
	row := dataset.Row{Values: make(map[string]any, len(ds.Columns))}

	dests := []any{&row.Time, &row.Area}
	var group string
	if ds.HasGroup {
		dests = append(dests, &group)
	}

	numPtrs := make([]**float64, 0, len(ds.Columns))
	textPtrs := make([]**string, 0)
	for _, col := range ds.Columns {
		if col.Kind == dataset.Numeric {
			p := new(*float64)
			numPtrs = append(numPtrs, p)
			dests = append(dests, p)
		} else {
			p := new(*string)
			textPtrs = append(textPtrs, p)
			dests = append(dests, p)
		}
	}

	if err := rows.Scan(dests...); err != nil {
		return dataset.Row{}, err
	}

	if ds.HasGroup && group != groupSentinel {
		g := group
		row.Group = &g
	}

	ni, ti := 0, 0
	for _, col := range ds.Columns {
		if col.Kind == dataset.Numeric {
			row.Values[col.Name] = *numPtrs[ni]
			ni++
		} else {
			row.Values[col.Name] = *textPtrs[ti]
			ti++
		}
	}
	return row, nil
}
