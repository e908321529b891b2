package sheetjson

import "slices"

// ValidateHeader returns a HeaderMismatch *Error
// if any of the required labels is missing in the actual labels.
// Additional actual labels are allowed.
//
// The error carries the complete required and actual label lists,
// leading or trailing whitespace in a sheet's header cells
// is a common cause for missing labels.
func ValidateHeader(sheetName string, actual, required []string) error {
	missing := MissingHeaders(actual, required)
	if len(missing) == 0 {
		return nil
	}
	return &Error{
		Kind:            HeaderMismatch,
		Sheet:           sheetName,
		RequiredHeaders: required,
		ActualHeaders:   actual,
		MissingHeaders:  missing,
	}
}

// MissingHeaders returns the required labels
// that are not in the actual labels.
func MissingHeaders(actual, required []string) (missing []string) {
	for _, label := range required {
		if !slices.Contains(actual, label) {
			missing = append(missing, label)
		}
	}
	return missing
}
