package fetcher

// The provider answers with something close to JSON: object keys are bare,
// string values carry stray backslashes and raw control bytes. Repair turns
// that into text encoding/json accepts. Each step is a pure byte transform.

type repairStep struct {
	name string
	fn   func([]byte) []byte
}

var repairSteps = []repairStep{
	{name: "numeric-keys", fn: quoteNumericKeys},
	{name: "field-keys", fn: quoteFieldKeys},
	{name: "backslashes", fn: escapeBackslashes},
	{name: "control-chars", fn: stripControlChars},
}

// fieldKeys are the bare keys the provider uses in programme objects.
var fieldKeys = map[string]bool{
	"id":       true,
	"desc":     true,
	"title":    true,
	"category": true,
	"start":    true,
	"stop":     true,
}

// Repair applies every repair step in order. raw is not modified.
// Running Repair on its own output returns the same bytes.
func Repair(raw []byte) []byte {
	out := raw
	for _, s := range repairSteps {
		out = s.fn(out)
	}
	return out
}

func quoteNumericKeys(b []byte) []byte {
	return quoteKeys(b, func(tok []byte) bool {
		for _, c := range tok {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
}

func quoteFieldKeys(b []byte) []byte {
	return quoteKeys(b, func(tok []byte) bool { return fieldKeys[string(tok)] })
}

// quoteKeys wraps a bare token in quotes when it sits in key position:
// outside a string, right after '{' or ',' (whitespace allowed), and followed
// by ':'. Tokens inside string values are never touched.
func quoteKeys(b []byte, want func(tok []byte) bool) []byte {
	out := make([]byte, 0, len(b)+32)
	inString := false
	expectKey := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if inString {
			out = append(out, c)
			switch c {
			case '\\':
				// A "\\" pair is one escaped backslash; a lone backslash is
				// literal and does not escape what follows.
				if i+1 < len(b) && b[i+1] == '\\' {
					out = append(out, '\\')
					i++
				}
			case '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '{' || c == ',':
			out = append(out, c)
			expectKey = true
			continue
		case isSpace(c):
			out = append(out, c)
			continue
		case c == '"':
			inString = true
		case expectKey && isKeyByte(c):
			j := i
			for j < len(b) && isKeyByte(b[j]) {
				j++
			}
			k := j
			for k < len(b) && isSpace(b[k]) {
				k++
			}
			if k < len(b) && b[k] == ':' && want(b[i:j]) {
				out = append(out, '"')
				out = append(out, b[i:j]...)
				out = append(out, '"')
				i = j - 1
				expectKey = false
				continue
			}
		}
		expectKey = false
		out = append(out, c)
	}
	return out
}

// escapeBackslashes doubles every backslash inside a string that is not
// already part of a "\\" pair. Legitimate escapes such as \n or \" are not
// recognised; they come out as a literal backslash plus the next character.
func escapeBackslashes(b []byte) []byte {
	out := make([]byte, 0, len(b)+16)
	inString := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case !inString:
			if c == '"' {
				inString = true
			}
			out = append(out, c)
		case c == '\\':
			out = append(out, '\\', '\\')
			if i+1 < len(b) && b[i+1] == '\\' {
				i++
			}
		case c == '"':
			inString = false
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func stripControlChars(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 0x20 {
			out = append(out, c)
		}
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isKeyByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
