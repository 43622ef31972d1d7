// pkg/model/cleaning.go
package model

// CleaningOperation records one value the normalizer could not take as-is and
// replaced with a fallback (zero, null, or a value from the file name)
type CleaningOperation struct {
	Source        string      // Source definition name
	FileName      string      // Input file the row came from
	Line          int         // Physical line number of the row in the file
	ColumnName    string      // Source column that was read
	FieldName     string      // Normalized field that received the fallback
	OriginalValue string      // Raw text as read (empty when the column was missing)
	NewValue      interface{} // Value stored instead
	Operation     string      // Type of cleaning performed (e.g., "numeric_fallback")
	Reason        string      // Reason for cleaning (e.g., "unparsable")
}

// CleaningContext contains information needed for cleaning a value
type CleaningContext struct {
	Source   string
	FileName string
	Line     int
}

// Operation builds a CleaningOperation for this context
func (c CleaningContext) Operation(column, field, original string, newValue interface{}, operation, reason string) CleaningOperation {
	return CleaningOperation{
		Source:        c.Source,
		FileName:      c.FileName,
		Line:          c.Line,
		ColumnName:    column,
		FieldName:     field,
		OriginalValue: original,
		NewValue:      newValue,
		Operation:     operation,
		Reason:        reason,
	}
}
