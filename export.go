package sheetjson

// NoDataLabel and NoDataNotice form the single row
// that ToRows returns for nil records.
const (
	NoDataLabel  = "notice"
	NoDataNotice = "no data"
)

// ToRows transforms records into rows labeled
// for export, the inverse of MapRow.
//
// For every record and every schema column in schema order
// the record value of Column.ExportKey is looked up,
// Column.Default is used if the record has no such key.
// Column.Format is applied if not nil and the result
// is labeled with Column.ExportLabel.
//
// If the schema is nil, the records are returned as rows
// with sorted keys. If records is nil,
// a single row with the field NoDataLabel: NoDataNotice is returned.
func ToRows(records []Record, schema Schema) []Row {
	if records == nil {
		return []Row{{{Label: NoDataLabel, Value: NoDataNotice}}}
	}
	rows := make([]Row, len(records))
	if schema == nil {
		for i, record := range records {
			rows[i] = record.Row()
		}
		return rows
	}
	for rowIndex, record := range records {
		row := make(Row, len(schema))
		for colIndex := range schema {
			col := &schema[colIndex]
			value, ok := record[col.ExportKey()]
			if !ok {
				value = col.Default
			}
			if col.Format != nil {
				value = col.Format(value, rowIndex, colIndex, record)
			}
			row[colIndex] = Field{Label: col.ExportLabel(), Value: value}
		}
		rows[rowIndex] = row
	}
	return rows
}

// RowsHeader returns the union of all row labels
// in the order of their first occurrence.
func RowsHeader(rows []Row) []string {
	var (
		header []string
		seen   = make(map[string]struct{})
	)
	for _, row := range rows {
		for _, f := range row {
			if _, ok := seen[f.Label]; !ok {
				seen[f.Label] = struct{}{}
				header = append(header, f.Label)
			}
		}
	}
	return header
}
