package sheetjson

// Requirement declares if a column must be present
// in the sheet header and if its values must not be empty.
type Requirement int

const (
	// RequireUnset is the zero value. The column must be
	// present in the header, but empty values are allowed.
	RequireUnset Requirement = iota
	// RequireYes demands the column in the header
	// and a non empty value in every row that has the cell.
	RequireYes
	// RequireNo makes the column optional.
	RequireNo
)

// RequireFromBool returns RequireYes for true and RequireNo for false.
func RequireFromBool(required bool) Requirement {
	if required {
		return RequireYes
	}
	return RequireNo
}

func (r Requirement) String() string {
	switch r {
	case RequireUnset:
		return "unset"
	case RequireYes:
		return "required"
	case RequireNo:
		return "optional"
	}
	return "invalid"
}

// HeaderRequired reports if the column must be present in the sheet header.
func (r Requirement) HeaderRequired() bool { return r != RequireNo }

// ValueRequired reports if the column's values must not be empty.
func (r Requirement) ValueRequired() bool { return r == RequireYes }

// CheckFunc validates a mapped record after all columns of a row
// have been assigned.
//
// Any bool result, including false, lets the check pass.
// Every other result fails the row with a CheckFailed error
// that carries the result as diagnostic value,
// so a check typically returns true or a message string.
type CheckFunc func(record Record) any

// FormatFunc transforms an exported value.
// rowIndex and colIndex are 0-based, record is the exported record.
type FormatFunc func(value any, rowIndex, colIndex int, record Record) any

// Column declares one column of a Schema.
type Column struct {
	// Header is the column label in the sheet's header row.
	Header string
	// Key is the record field the column is mapped to.
	// Columns without a Key are ignored on import.
	Key string
	// Type of the column values, defaults to TypeString.
	Type TypeTag
	// Require declares if the column and its values are required.
	Require Requirement
	// Check is called for every row with a non empty value
	// after the whole row has been mapped.
	Check CheckFunc

	// Label is the export header, defaults to Header.
	Label string
	// Default is exported when a record has no value for the column.
	Default any
	// Format transforms exported values.
	Format FormatFunc
}

// ExportLabel returns Label or Header if Label is empty.
func (c *Column) ExportLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Header
}

// ExportKey returns the record field that is exported
// for the column: Key or Header if Key is empty.
func (c *Column) ExportKey() string {
	if c.Key != "" {
		return c.Key
	}
	return c.Header
}

// Schema is an ordered list of column declarations.
//
// Import looks up columns by their Header,
// export writes them in slice order.
// A nil Schema means that no schema was given.
type Schema []Column

// Column returns the column with the passed header.
// If there are multiple, the last one wins.
func (s Schema) Column(header string) (*Column, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Header == header {
			return &s[i], true
		}
	}
	return nil, false
}

// Headers returns the headers of all columns in order.
func (s Schema) Headers() []string {
	headers := make([]string, len(s))
	for i := range s {
		headers[i] = s[i].Header
	}
	return headers
}

// RequiredHeaders returns the headers of all columns
// that must be present in a sheet's header row.
func (s Schema) RequiredHeaders() []string {
	var headers []string
	for i := range s {
		if s[i].Require.HeaderRequired() {
			headers = append(headers, s[i].Header)
		}
	}
	return headers
}

// Validate returns an InvalidSchema *Error for the first
// column with an unknown Type or Requirement.
func (s Schema) Validate(sheetName string) error {
	for i := range s {
		col := &s[i]
		if col.Type != "" && !col.Type.Valid() {
			return &Error{
				Kind:   InvalidSchema,
				Sheet:  sheetName,
				Column: col.Header,
				Detail: "unknown type " + string(col.Type),
			}
		}
		if col.Require < RequireUnset || col.Require > RequireNo {
			return &Error{
				Kind:   InvalidSchema,
				Sheet:  sheetName,
				Column: col.Header,
				Detail: "invalid requirement " + col.Require.String(),
			}
		}
	}
	return nil
}

// Template binds a Schema to a sheet.
type Template struct {
	// SheetName of the sheet, the first sheet of the workbook if empty.
	SheetName string
	// Header is the Schema for the sheet columns.
	// If nil, rows are returned without validation.
	Header Schema
}
