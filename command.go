package main

import (
	"log"
	"strings"

	"github.com/horgh/irc"
)

// handleInput acts on one line read from a conversation's in FIFO. It
// produces at most one wire message, and sometimes a local echo to the
// conversation's out file.
//
// Lines not starting with '/' are messages to the conversation. "/x" and
// "/x rest" select a single-letter command. Anything else after a '/'
// goes to the server raw, slash stripped.
func (c *Client) handleInput(conv *Conversation, line string) {
	if !strings.HasPrefix(line, "/") {
		c.privCommand(conv.Name, line)
		return
	}

	if len(line) < 2 || (len(line) > 2 && line[2] != ' ') {
		c.rawCommand(line[1:])
		return
	}

	// hasArg distinguishes "/x" from "/x " — several commands treat a
	// present-but-empty argument differently from no argument at all.
	hasArg := len(line) > 2
	rest := ""
	if hasArg {
		rest = line[3:]
	}

	switch line[1] {
	case 'a':
		if hasArg {
			c.sendf("AWAY :%s\r\n", rest)
		} else {
			c.send("AWAY\r\n")
		}

	case 'i':
		if hasArg {
			c.sendf("INVITE %s %s\r\n", rest, conv.Name)
		}

	case 'j':
		c.joinCommand(rest)

	case 'k':
		if hasArg {
			c.sendf("KICK %s %s\r\n", conv.Name, rest)
		}

	case 'l':
		if conv.Name == "" {
			// There is nothing to part from in the server conversation.
			return
		}
		if hasArg {
			c.sendf("PART %s :%s\r\n", conv.Name, rest)
		} else {
			c.sendf("PART %s\r\n", conv.Name)
		}

	case 'm':
		if hasArg {
			c.sendf("MODE %s %s\r\n", conv.Name, rest)
		}

	case 'n':
		if hasArg {
			c.sendf("NICK %s\r\n", rest)
		}

	case 'p':
		c.privCommand(conv.Name, rest)

	case 'q':
		if hasArg {
			c.sendf("QUIT :%s\r\n", rest)
		} else {
			c.send("QUIT\r\n")
		}

	case 'r':
		c.rawCommand(rest)

	case 't':
		if hasArg {
			c.sendf("TOPIC %s :%s\r\n", conv.Name, rest)
		} else {
			c.sendf("TOPIC %s\r\n", conv.Name)
		}

	case 'u':
		c.sendf("NAMES %s\r\n", conv.Name)

	default:
		c.rawCommand(line[1:])
	}
}

// privCommand sends a message to the target and echoes it to the target's
// out file, so the sender sees their own traffic in the log.
func (c *Client) privCommand(target, body string) {
	c.sendf("PRIVMSG %s :%s\r\n", target, body)
	c.writeOut(target, c.Nick, body)
}

// joinCommand handles /j: join a channel, or open a private conversation
// with a user by messaging them.
func (c *Client) joinCommand(rest string) {
	if rest == "" {
		return
	}

	first := rest
	remainder := ""
	if idx := strings.IndexByte(rest, ' '); idx != -1 {
		first = rest[:idx]
		remainder = rest[idx+1:]
	}

	if isChannel(first) {
		c.sendf("JOIN %s %s\r\n", first, remainder)
		return
	}

	if _, err := c.addConversation(first); err != nil {
		log.Printf("Cannot open conversation %s: %s", first, err)
	}
	c.privCommand(first, remainder)
}

// rawCommand sends the input to the server as-is. A raw PRIVMSG or NOTICE
// still echoes to the target's out file.
func (c *Client) rawCommand(input string) {
	wire := input + "\r\n"
	c.send(wire)

	m, err := irc.ParseMessage(wire)
	if err != nil && err != irc.ErrTruncated {
		return
	}

	if (m.Command == "PRIVMSG" || m.Command == "NOTICE") &&
		len(m.Params) >= 2 {
		c.writeOut(m.Params[0], c.Nick, m.Params[1])
	}
}
