package format

import (
	"reflect"
	"regexp"
)

var (
	qualifierPattern = regexp.MustCompile(`(?:[\w\-.~]+/)*[\w\-]+\.`)
	commaPattern     = regexp.MustCompile(`,(\S)`)
	aliasPatterns    = []struct {
		pattern *regexp.Regexp
		alias   string
	}{
		{regexp.MustCompile(`\buint8\b`), "byte"},
		{regexp.MustCompile(`\bint32\b`), "rune"},
		{regexp.MustCompile(`interface \{\}`), "any"},
	}
)

// TypeName renders t the way it would be written in the package that declares it:
// package qualifiers are dropped, uint8 and int32 become byte and rune, the empty
// interface becomes any, and generic instantiations read Outer[A, B].
func TypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	return cleanTypeString(name)
}

func cleanTypeString(s string) string {
	s = qualifierPattern.ReplaceAllString(s, "")

	for _, a := range aliasPatterns {
		s = a.pattern.ReplaceAllString(s, a.alias)
	}

	return commaPattern.ReplaceAllString(s, ", $1")
}
