package repository

import "strings"

// Sauce lists are persisted as a comma-joined column; order is preserved.
func joinSauces(s []string) string { return strings.Join(s, ",") }

func splitSauces(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
