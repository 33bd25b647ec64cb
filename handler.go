package main

import (
	"fmt"
	"log"
	"strings"
)

// handleServerLine parses one line from the server, updates routing state
// (joins, parts, kicks, nick changes), and appends the formatted log line
// to the right conversation's out file.
//
// The return value is false when the message was our own QUIT and the
// client should shut down.
func (c *Client) handleServerLine(line string) bool {
	m := ParseMessage(line)

	// Unless a verb overrides them below, the line routes on its first
	// parameter and system events display as the server.
	mesg := ""
	displayedNick := serverNick
	routeTarget := m.Target
	hasHost := m.Host != ""

	switch m.Command {
	case "", "PONG":
		// Nothing to do.

	case "001":
		// The nick is what the server finally accepted and registered us
		// with.
		if m.Target != "" && m.Target != c.Nick {
			c.Nick = m.Target
		}

	case "353":
		// Reply from a NAMES command. The channel sits at the end of the
		// middle parameters, with one trailing space to trim.
		if idx := strings.IndexByte(m.Middle, ' '); idx != -1 {
			routeTarget = strings.TrimSuffix(m.Middle[idx+1:], " ")
			hasHost = true
		}
		mesg = fmt.Sprintf("= %s", m.Trailing)

	case "ERROR":
		mesg = fmt.Sprintf("error: %s", m.Trailing)

	case "TOPIC":
		mesg = fmt.Sprintf("%s changed topic to: %s", m.From(), m.Trailing)

	case "MODE":
		args := m.Middle
		if m.HasTrailing {
			args = m.Trailing
		}
		mesg = fmt.Sprintf("%s changed mode to: %s", m.From(), args)

	case "KICK":
		kicked := m.Middle
		if m.HasTrailing {
			kicked = strings.TrimSuffix(kicked, " ")
		}
		mesg = fmt.Sprintf("%s has kicked %s from %s (%s)", m.From(),
			kicked, m.Target, m.Trailing)
		if kicked == c.Nick {
			c.removeConversation(m.Target)
		}

	case "PART":
		mesg = fmt.Sprintf("%s has parted %s (%s)", m.From(), m.Target,
			m.Trailing)
		if m.From() == c.Nick {
			c.removeConversation(m.Target)
		}

	case "JOIN":
		// Some servers put the channel in the trailing.
		chanName := m.Target
		if chanName == "" {
			chanName = m.Trailing
		}
		routeTarget = chanName
		mesg = fmt.Sprintf("%s has joined %s", m.From(), chanName)
		if _, err := c.addConversation(chanName); err != nil {
			log.Printf("Cannot open conversation %s: %s", chanName, err)
		}

	case "QUIT":
		mesg = fmt.Sprintf("%s has quit (%s)", m.From(), m.Trailing)

	case "NICK":
		mesg = fmt.Sprintf("%s changed nick to: %s", m.From(), m.Trailing)
		if m.From() == c.Nick {
			c.Nick = m.Trailing
		}

	case "PRIVMSG", "NOTICE":
		mesg = m.Trailing
		displayedNick = m.From()
		if m.Target == c.Nick {
			if _, err := c.addConversation(m.From()); err != nil {
				log.Printf("Cannot open conversation %s: %s", m.From(), err)
			}
		}

	case "PING":
		c.sendf("PONG %s\r\n", m.Trailing)
		// Pings do not reach any out file.

	default:
		if m.HasTrailing {
			mesg = m.Middle + m.Trailing
		}
	}

	if mesg != "" {
		switch {
		case !hasHost || routeTarget == "":
			// A message from/to the server itself.
			c.writeOut("", serverNick, mesg)
		case isChannel(routeTarget):
			// A public message from/to a channel.
			c.writeOut(routeTarget, displayedNick, mesg)
		default:
			// A private message from/to a user.
			c.writeOut(m.From(), displayedNick, mesg)
		}
	}

	return m.Command != "QUIT" || m.From() != c.Nick
}
