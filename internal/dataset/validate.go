package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// previewRecords is how many leading records the pre-flight check
// parses. It bounds the cost of validating very large files.
const previewRecords = 5

// ValidateFile is the cheap pre-flight check run before a load commits
// resources: the path must resolve to a regular, non-empty file whose
// leading records parse as CSV. A passing file can still fail the full
// parse later; that is reported separately.
func ValidateFile(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, fmt.Sprintf("File not found: %s", path)
	}
	if info.Size() == 0 {
		return false, fmt.Sprintf("File is empty: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Sprintf("File not found: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	for i := 0; i < previewRecords; i++ {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return false, fmt.Sprintf("Invalid CSV format: %v", err)
		}
	}
	return true, ""
}
