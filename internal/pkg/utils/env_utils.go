package utils

import (
	"os"
	"strconv"
)

// GetEnv returns the value of key, or fallback when the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ParsePage parses a 1-based page label. Anything that is not a positive integer yields 1.
func ParsePage(label string) int {
	p, err := strconv.Atoi(label)
	if err != nil || p < 1 {
		return 1
	}
	return p
}
