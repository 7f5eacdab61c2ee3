package schema

import (
	"regexp"
	"strings"
)

// Types rendered as `type(length)` when a length is given.
var lengthTypes = map[string]bool{
	"int":       true,
	"mediumint": true,
	"tinyint":   true,
	"smallint":  true,
	"binary":    true,
	"varchar":   true,
	"bigint":    true,
	"char":      true,
	"float":     true,
}

// Types whose length is never rendered.
var bareTypes = map[string]bool{
	"text": true,
	"blob": true,
}

const booleanType = "TINYINT(1)"

var (
	enumValuesRegexp  = regexp.MustCompile(`^enum\s*\((.*)\)$`)
	enumLiteralRegexp = regexp.MustCompile(`'((?:[^']|'')*)'|"((?:[^"]|"")*)"`)
	numberRegexp      = regexp.MustCompile(`^[-+]?[0-9]+(\.[0-9]+)?$`)
	booleanEnums      = [][2]string{
		{"0", "1"},
		{"false", "true"},
	}
	defaultKeywords = map[string]bool{
		"null":              true,
		"current_timestamp": true,
		"current_date":      true,
		"current_time":      true,
		"localtime":         true,
		"localtimestamp":    true,
		"now()":             true,
	}
)

func normalizeTypeName(typeName string) string {
	return strings.ToLower(strings.TrimSpace(typeName))
}

// columnType renders a type with its length qualifier, following the length policy of its family.
func columnType(typeName string, length string) string {
	if bareTypes[typeName] || length == "" {
		return typeName
	}
	if lengthTypes[typeName] {
		return typeName + "(" + length + ")"
	}
	return typeName
}

// isBooleanEnum reports whether typeName is an enum of exactly two boolean-like values.
func isBooleanEnum(typeName string) bool {
	values, ok := enumValues(typeName)
	if !ok || len(values) != 2 {
		return false
	}
	for _, pair := range booleanEnums {
		if (values[0] == pair[0] && values[1] == pair[1]) || (values[0] == pair[1] && values[1] == pair[0]) {
			return true
		}
	}
	return false
}

// enumValues returns the lower-cased literals of `enum('a','b')`. Anything
// but quoted literals separated by commas makes it fail.
func enumValues(typeName string) ([]string, bool) {
	matches := enumValuesRegexp.FindStringSubmatch(strings.ToLower(strings.TrimSpace(typeName)))
	if matches == nil {
		return nil, false
	}
	body := matches[1]

	var values []string
	end := 0
	for i, loc := range enumLiteralRegexp.FindAllStringSubmatchIndex(body, -1) {
		separator := strings.TrimSpace(body[end:loc[0]])
		if (i == 0 && separator != "") || (i > 0 && separator != ",") {
			return nil, false
		}
		if loc[2] >= 0 {
			values = append(values, strings.ReplaceAll(body[loc[2]:loc[3]], "''", "'"))
		} else {
			values = append(values, strings.ReplaceAll(body[loc[4]:loc[5]], `""`, `"`))
		}
		end = loc[1]
	}
	if strings.TrimSpace(body[end:]) != "" {
		return nil, false
	}
	return values, true
}

// defaultExpression renders a DEFAULT value. Numbers, keywords and
// parenthesized expressions are emitted as-is, anything else as a string constant.
func defaultExpression(value string) string {
	if numberRegexp.MatchString(value) {
		return value
	}
	if defaultKeywords[strings.ToLower(value)] {
		return strings.ToUpper(value)
	}
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		return value
	}
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return value
	}
	return StringConstant(value)
}

// StringConstant quotes s as a SQL string literal.
func StringConstant(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
