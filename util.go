package main

// Maximum length of a canonical conversation name.
const maxConversationLength = 49

// ircLower converts a conversation name to its canonical representation
// (which must be unique) using the rfc1459 case mapping: []\~ fold to
// {}|^ and ASCII A-Z to a-z. No other byte is transformed.
//
// Names containing NUL, BEL, CR, LF, or a space are rejected. A comma
// ends the name: IRC multi-target lists are not supported, only the first
// target is kept. Output longer than the maximum is truncated there.
func ircLower(s string) (string, bool) {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s) && len(out) < maxConversationLength; i++ {
		c := s[i]

		switch c {
		case 0x00, 0x07, '\r', '\n', ' ':
			return "", false
		case ',':
			return string(out), true
		case '[':
			c = '{'
		case ']':
			c = '}'
		case '\\':
			c = '|'
		case '~':
			c = '^'
		default:
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
		}

		out = append(out, c)
	}

	return string(out), true
}

// isChannel says whether the name names a channel rather than a nick.
func isChannel(name string) bool {
	if len(name) == 0 {
		return false
	}

	return name[0] == '#' || name[0] == '+' || name[0] == '!' ||
		name[0] == '&'
}
