package storage

import "strings"

// placeholders returns a comma-joined list of n "?" parameter markers,
// e.g. placeholders(3) == "?, ?, ?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

// byteSlicesToArgs widens a [][]byte into []interface{} for sql driver args.
func byteSlicesToArgs(bs [][]byte) []interface{} {
	args := make([]interface{}, len(bs))
	for i, b := range bs {
		args[i] = b
	}
	return args
}
