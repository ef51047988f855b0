package classify

import (
	"regexp"
	"strings"
)

// CompileKeepRules accepts a list of raw inputs — plain regex-source
// strings, {regex, flags} or {pattern, glob, flags} objects — and returns
// the compiled subset; invalid patterns are silently dropped (spec §4.7).
func CompileKeepRules(raw []interface{}) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, r := range raw {
		if re := compileOne(r); re != nil {
			out = append(out, re)
		}
	}
	return out
}

func compileOne(r interface{}) *regexp.Regexp {
	switch v := r.(type) {
	case string:
		return tryCompile(v, "")
	case map[string]interface{}:
		flags, _ := v["flags"].(string)
		if pattern, ok := v["regex"].(string); ok {
			return tryCompile(pattern, flags)
		}
		if pattern, ok := v["pattern"].(string); ok {
			if glob, _ := v["glob"].(bool); glob {
				pattern = globToRegex(pattern)
			}
			return tryCompile(pattern, flags)
		}
	}
	return nil
}

func tryCompile(pattern, flags string) *regexp.Regexp {
	if strings.Contains(flags, "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

// globToRegex maps a glob-style pattern to regex source: `*` becomes `.*`,
// every other regex metacharacter is escaped.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		if c == '*' {
			b.WriteString(".*")
			continue
		}
		if strings.IndexByte(`\.+?()[]{}|^$`, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func matchesAny(id string, rules []*regexp.Regexp) bool {
	for _, re := range rules {
		if re.MatchString(id) {
			return true
		}
	}
	return false
}
