package internal

import (
	"regexp"
)

const (
	// A valid name must start with a letter, digit or underscore.
	// It may contain any character after that except control and slash.
	pattern = `^[\pL\pN_][^\pC/]*$`
	// It may not end with a whitespace character, or be a reserved word.
	antiPattern = `(\pZ|^(u?byte|char|string|u?short|u?int|u?int64|uint64|float|double|enum|opaque|compound))$`
)

var (
	re     = regexp.MustCompile(pattern)
	antiRe = regexp.MustCompile(antiPattern)
)

// IsValidNetCDFName returns true if name can name a dimension or variable.
func IsValidNetCDFName(name string) bool {
	return re.MatchString(name) && !antiRe.MatchString(name)
}

// InvalidNetCDFNames returns the names that are not valid, in input order.
func InvalidNetCDFNames(names ...string) []string {
	var bad []string
	for _, name := range names {
		if !IsValidNetCDFName(name) {
			bad = append(bad, name)
		}
	}
	return bad
}
