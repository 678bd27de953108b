package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// NormalizeDate converts a DD.MM.YYYY date string to YYYY-MM-DD. Dates
// already in YYYY-MM-DD form pass through unchanged.
func NormalizeDate(date string) (string, error) {
	if _, err := time.Parse("2006-01-02", date); err == nil {
		return date, nil
	}
	parsed, err := time.Parse("02.01.2006", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected DD.MM.YYYY", date)
	}
	return parsed.Format("2006-01-02"), nil
}

// StoredFileName builds a unique on-disk name for an upload. The uuid
// prefix keeps concurrent uploads of the same file from colliding.
func StoredFileName(original string) string {
	return uuid.New().String() + "_" + filepath.Base(original)
}
