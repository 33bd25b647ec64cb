package main

import "strings"

// Message holds one protocol message from the server, decomposed the way
// the routing code consumes it. See RFC 1459/2812 section 2.3.1.
type Message struct {
	// Prefix is the full prefix without the leading ':'. Blank when the
	// message carried none.
	Prefix string

	// Nick, User, and Host decompose a nick[!user]@host prefix. User and
	// Host are only set when their markers are present. Nick is the whole
	// prefix when there is no '@' (a server name, usually).
	Nick string
	User string
	Host string

	// Command is the verb or three-digit numeric. It may be blank for a
	// malformed (prefix-only) line; the handler drops those.
	Command string

	// Target is the first parameter word.
	Target string

	// Middle is the remaining middle parameters as one string, verbatim.
	// When a trailing follows, Middle keeps the space that separated
	// them; handlers that display it trim exactly one.
	Middle string

	// Trailing is the final parameter introduced by ':'. HasTrailing
	// distinguishes an absent trailing from an empty one.
	Trailing    string
	HasTrailing bool
}

// From returns the name the message displays as its origin: the nick
// portion of the prefix, or the whole prefix when it has no user/host
// part.
func (m Message) From() string {
	return m.Nick
}

// ParseMessage decomposes a raw protocol line. The line must already have
// its CRLF stripped.
//
// The parse does not validate the command; unknown verbs pass through to
// the handler. All fields are subslices of the input.
func ParseMessage(line string) Message {
	m := Message{}

	rest := line

	// A prefix always starts with ':', else the first word is the
	// command.
	if len(rest) > 0 && rest[0] == ':' {
		prefix := rest[1:]
		rest = ""
		if idx := strings.IndexByte(prefix, ' '); idx != -1 {
			rest = prefix[idx+1:]
			prefix = prefix[:idx]
		}

		m.Prefix = prefix
		m.Nick = prefix

		// The prefix may contain the [!user]@host.
		if at := strings.IndexByte(prefix, '@'); at != -1 {
			m.Host = prefix[at+1:]
			m.Nick = prefix[:at]
			if ex := strings.IndexByte(m.Nick, '!'); ex != -1 {
				m.User = m.Nick[ex+1:]
				m.Nick = m.Nick[:ex]
			}
		}
	}

	if rest == "" {
		return m
	}

	// The command runs to the first space. Anything after it is the
	// parameter region.
	m.Command = rest
	params := ""
	hasParams := false
	if idx := strings.IndexByte(rest, ' '); idx != -1 {
		m.Command = rest[:idx]
		params = rest[idx+1:]
		hasParams = true
	}

	if !hasParams {
		return m
	}

	// A parameter region that opens with ':' is all trailing.
	if len(params) > 0 && params[0] == ':' {
		m.Trailing = params[1:]
		m.HasTrailing = true
		return m
	}

	// The first word is the target; the remainder is middle, split at the
	// first ':' into middle and trailing.
	m.Target = params
	idx := strings.IndexByte(params, ' ')
	if idx == -1 {
		return m
	}

	m.Target = params[:idx]
	middle := params[idx+1:]

	if colon := strings.IndexByte(middle, ':'); colon != -1 {
		m.Middle = middle[:colon]
		m.Trailing = middle[colon+1:]
		m.HasTrailing = true
	} else {
		m.Middle = middle
	}

	return m
}
