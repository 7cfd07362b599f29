package importer

import "strings"

// MaxFileSize is the upload ceiling for import files (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// ValidateFile is the pre-parse gate: extension and size are checked before
// any row is read. Returns the list of violations, empty when the file is
// acceptable.
func ValidateFile(filename string, size int64) []string {
	var errs []string
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		errs = append(errs, "File must be a CSV file")
	}
	if size > MaxFileSize {
		errs = append(errs, "File size must be less than 10MB")
	}
	return errs
}
