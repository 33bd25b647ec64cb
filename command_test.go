package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputMessage(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}
	c.handleInput(conv, "hello world")

	assert.Equal(t, "PRIVMSG #chan :hello world", waitForLine(t, received))
	assert.Contains(t, readOut(t, "#chan"), " <self> hello world\n")
}

func TestInputMessageServerConversation(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: ""}
	c.handleInput(conv, "hello")

	assert.Equal(t, "PRIVMSG  :hello", waitForLine(t, received))
	assert.Contains(t, readOut(t, ""), " <self> hello\n")
}

func TestInputCommands(t *testing.T) {
	tests := []struct {
		input string
		wire  string
	}{
		{"/a", "AWAY"},
		{"/a brb", "AWAY :brb"},
		{"/a ", "AWAY :"},
		{"/n newnick", "NICK newnick"},
		{"/q", "QUIT"},
		{"/q bye", "QUIT :bye"},
		{"/t", "TOPIC #chan"},
		{"/t new topic", "TOPIC #chan :new topic"},
		{"/u", "NAMES #chan"},
		{"/m +o bob", "MODE #chan +o bob"},
		{"/k bob", "KICK #chan bob"},
		{"/i bob", "INVITE bob #chan"},
		{"/l", "PART #chan"},
		{"/l had enough", "PART #chan :had enough"},
		{"/j #foo", "JOIN #foo "},
		{"/j #foo secret", "JOIN #foo secret"},
		// Unknown letters and missing separators go out raw.
		{"/who bob", "who bob"},
		{"/x y", "x y"},
		{"/", ""},
	}

	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}

	for _, test := range tests {
		c.handleInput(conv, test.input)
		assert.Equal(t, test.wire, waitForLine(t, received),
			"input %q", test.input)
	}
}

func TestInputNoOps(t *testing.T) {
	// Commands that require an argument do nothing without one. Probe
	// with a command that always produces output: the probe's reply being
	// next proves the no-op sent nothing.
	inputs := []string{"/i", "/j", "/k", "/m", "/n"}

	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}

	for _, input := range inputs {
		c.handleInput(conv, input)
		c.handleInput(conv, "/u")
		assert.Equal(t, "NAMES #chan", waitForLine(t, received),
			"input %q", input)
	}
}

func TestInputPartServerConversation(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: ""}

	c.handleInput(conv, "/l")
	c.handleInput(conv, "/u")
	assert.Equal(t, "NAMES ", waitForLine(t, received),
		"no PART in the server conversation")
}

func TestInputJoinUser(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: ""}
	c.handleInput(conv, "/j bob hi there")

	assert.Equal(t, "PRIVMSG bob :hi there", waitForLine(t, received))
	require.Contains(t, c.Conversations, "bob",
		"messaging a user opens the conversation")
	assert.Contains(t, readOut(t, "bob"), " <self> hi there\n")
}

func TestInputPrivCommand(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}
	c.handleInput(conv, "/p hey all")

	assert.Equal(t, "PRIVMSG #chan :hey all", waitForLine(t, received))
	assert.Contains(t, readOut(t, "#chan"), " <self> hey all\n")
}

func TestInputRawEchoesMessages(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}

	c.handleInput(conv, "/r NOTICE bob :hey")
	assert.Equal(t, "NOTICE bob :hey", waitForLine(t, received))
	assert.Contains(t, readOut(t, "bob"), " <self> hey\n")

	c.handleInput(conv, "/r PRIVMSG #other :psst")
	assert.Equal(t, "PRIVMSG #other :psst", waitForLine(t, received))
	assert.Contains(t, readOut(t, "#other"), " <self> psst\n")
}

func TestInputRawNoEchoForOtherCommands(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}

	c.handleInput(conv, "/r WHOIS bob")
	assert.Equal(t, "WHOIS bob", waitForLine(t, received))
	assert.NotContains(t, c.Conversations, "bob")
}

func TestInputOverlongMessageKeepsFraming(t *testing.T) {
	c, received, _, cleanup := newTestClient(t)
	defer cleanup()

	conv := &Conversation{Name: "#chan"}
	c.handleInput(conv, "/r "+strings.Repeat("x", 600))

	// 512 bytes on the wire, the last two being CRLF: 510 payload bytes
	// survive.
	line := waitForLine(t, received)
	assert.Equal(t, 510, len(line))
	assert.Equal(t, strings.Repeat("x", 510), line)
}
