package domain

import "fmt"

const (
	DefaultTicketPrefix   = "DZIND"
	DefaultEmployeePrefix = "dAssist"
)

// FormatTicketID renders the human readable ticket id, e.g. DZIND-2025-00007.
func FormatTicketID(prefix string, year int, key int64) string {
	if prefix == "" {
		prefix = DefaultTicketPrefix
	}
	return formatKey(prefix, year, key)
}

// FormatEmployeeID renders an employee id, e.g. dAssist-2025-00012.
func FormatEmployeeID(prefix string, year int, key int64) string {
	if prefix == "" {
		prefix = DefaultEmployeePrefix
	}
	return formatKey(prefix, year, key)
}

// Keys above 99999 widen the numeric part rather than truncating it.
func formatKey(prefix string, year int, key int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, key)
}
