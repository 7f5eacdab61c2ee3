package schema

import (
	"strings"

	"github.com/sqldef/jsondef/util"
)

// normalizeIdentifier returns the key used to compare identifiers.
// MySQL compares table, column and index names case-insensitively on most systems.
func normalizeIdentifier(name string) string {
	return strings.ToLower(name)
}

// QuoteIdentifier quotes an identifier with backticks, doubling any embedded backtick.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteIdentifiers(names []string) string {
	return strings.Join(util.TransformSlice(names, QuoteIdentifier), ", ")
}

// containsIdentifier reports whether names contains name, ignoring case.
func containsIdentifier(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
