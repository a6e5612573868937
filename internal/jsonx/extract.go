// Package jsonx extracts JSON values from free-form model output.
//
// Models are instructed to reply with bare JSON, but in practice they
// sometimes wrap the payload in prose or markdown fences. These helpers
// pull the first balanced bracket span out of the text so the caller can
// unmarshal it. The failure mode is an empty string, never an error.
package jsonx

// ExtractArray returns the first balanced "[...]" span in s, or "" when
// no complete array is present.
func ExtractArray(s string) string {
	return extract(s, '[', ']')
}

// ExtractObject returns the first balanced "{...}" span in s, or "" when
// no complete object is present.
func ExtractObject(s string) string {
	return extract(s, '{', '}')
}

// extract scans for the first open byte and tracks nesting depth until the
// matching close byte. Brackets inside JSON strings are ignored, as are
// escaped quotes.
func extract(s string, open, close byte) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			if start >= 0 {
				inString = !inString
			}
		case inString:
			// Bracket characters inside strings don't count.
		case c == open:
			if start < 0 {
				start = i
			}
			depth++
		case c == close && start >= 0:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
