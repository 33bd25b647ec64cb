/*
 * IRC client that maps conversations onto a directory tree.
 *
 * Every channel or private correspondent we talk to is a directory holding
 * an "in" FIFO for user input and an "out" log file for traffic. The root
 * of the tree is the server conversation. A single connection to the IRC
 * server is multiplexed against all of them.
 */

package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/horgh/irc"
	"github.com/pkg/errors"
)

// Displayed nick for server-originated system events.
const serverNick = "-!-"

// File names inside each conversation directory.
const (
	inFile  = "in"
	outFile = "out"
)

// Client holds the state for a connection to a server.
// I put everything global to the connection in an instance of struct
// rather than have global variables.
type Client struct {
	Config *Config

	// Conn holds the TCP connection to the server.
	Conn *Conn

	// The nickname the server currently knows us by. It can drift from the
	// one we asked for (001 tells us what was accepted, and NICK changes
	// it).
	Nick string

	// Conversation name (canonicalized) to Conversation. The order slice
	// gives deterministic iteration.
	Conversations     map[string]*Conversation
	conversationOrder []string

	// We hear about server lines, FIFO lines, and I/O failures on this
	// channel.
	EventChan chan Event

	// The last time we heard anything from the server.
	LastMessageTime time.Time
}

// Event is a happening one of the reader goroutines tells the main loop
// about.
type Event struct {
	Type EventType

	// Line is set for line events.
	Line string

	// Conversation is set for conversation events.
	Conversation *Conversation

	Err error
}

// EventType is a type of event we can tell the main loop about.
type EventType int

const (
	// ServerLineEvent means a line arrived from the server.
	ServerLineEvent EventType = iota

	// DeadServerEvent means reading from the server failed.
	DeadServerEvent

	// ConversationLineEvent means a line arrived on a conversation's in
	// FIFO.
	ConversationLineEvent

	// ConversationErrEvent means reading a conversation's in FIFO failed.
	ConversationErrEvent
)

func main() {
	log.SetFlags(0)

	args := getArgs()

	config, err := loadConfig(args)
	if err != nil {
		log.Fatal(err)
	}

	client := newClient(config)

	if err := client.run(); err != nil {
		log.Fatal(err)
	}
}

func newClient(config *Config) *Client {
	return &Client{
		Config:        config,
		Nick:          config.Nick,
		Conversations: map[string]*Conversation{},
		EventChan:     make(chan Event, 100),
	}
}

// run creates the working directory tree, connects and registers, and then
// acts on events until the connection dies or we quit.
func (c *Client) run() error {
	dir := filepath.Join(c.Config.IRCDir, c.Config.Server)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "cannot create main directory %s", dir)
	}
	if err := os.Chdir(dir); err != nil {
		return errors.Wrapf(err, "cannot change working directory to %s",
			dir)
	}

	conn, err := net.Dial("tcp",
		net.JoinHostPort(c.Config.Server, c.Config.Port))
	if err != nil {
		return errors.Wrapf(err, "cannot connect to %s:%s", c.Config.Server,
			c.Config.Port)
	}
	c.Conn = NewConn(conn, c.Config.Debug)

	if _, err := c.addConversation(""); err != nil {
		return errors.Wrap(err, "cannot create server conversation")
	}

	if err := c.identify(); err != nil {
		return errors.Wrap(err, "cannot identify")
	}

	go c.serverReadLoop()

	return c.eventLoop()
}

// identify sends the registration sequence. It goes out as a single write
// so the server never sees a partial registration.
func (c *Client) identify() error {
	mesg := ""
	if c.Config.HasPassword {
		mesg += fmt.Sprintf("PASS %s\r\n", c.Config.Password)
	}
	mesg += fmt.Sprintf("NICK %s\r\n", c.Nick)
	mesg += fmt.Sprintf("USER %s 0 * :%s\r\n", c.Nick, c.Config.RealName)

	return c.Conn.Write(mesg)
}

// eventLoop is the main loop. It owns all client state: the reader
// goroutines only ever hand us events.
//
// The alarm wakes us at a third of the liveness window. If the server has
// been silent for the whole window we give up, otherwise we ping it.
func (c *Client) eventLoop() error {
	alarmChan := make(chan struct{})
	go c.alarm(alarmChan)

	c.LastMessageTime = time.Now()

	for {
		select {
		case evt := <-c.EventChan:
			switch evt.Type {
			case ServerLineEvent:
				c.LastMessageTime = time.Now()
				if !c.handleServerLine(evt.Line) {
					return nil
				}

			case DeadServerEvent:
				return errors.New("remote host closed connection")

			case ConversationLineEvent:
				// Possibly from a conversation we already dropped or reopened.
				if c.Conversations[evt.Conversation.Name] != evt.Conversation {
					continue
				}
				c.handleInput(evt.Conversation, evt.Line)

			case ConversationErrEvent:
				if c.Conversations[evt.Conversation.Name] != evt.Conversation {
					continue
				}
				c.reopenConversation(evt.Conversation)
			}

		case <-alarmChan:
			if time.Since(c.LastMessageTime) >= c.Config.PingTimeout {
				return errors.New("ping timeout")
			}
			c.sendf("PING %s\r\n", c.Config.Server)
		}
	}
}

// alarm wakes up the main loop periodically so it can check liveness.
func (c *Client) alarm(ch chan<- struct{}) {
	for {
		time.Sleep(c.Config.PingTimeout / 3)
		ch <- struct{}{}
	}
}

// serverReadLoop endlessly reads lines from the server connection and
// passes them to the main loop.
func (c *Client) serverReadLoop() {
	for {
		line, err := c.Conn.ReadLine()
		if err != nil {
			c.newEvent(Event{Type: DeadServerEvent, Err: err})
			return
		}

		c.newEvent(Event{Type: ServerLineEvent, Line: line})
	}
}

func (c *Client) newEvent(evt Event) {
	c.EventChan <- evt
}

// sendf formats a wire message and sends it to the server.
func (c *Client) sendf(format string, args ...interface{}) {
	c.send(fmt.Sprintf(format, args...))
}

// send writes a wire message to the server. A message longer than the
// protocol limit is truncated with the framing CRLF forced into the final
// two bytes. A truncated message beats a desynchronised stream.
func (c *Client) send(message string) {
	if len(message) > irc.MaxLineLength {
		message = message[:irc.MaxLineLength-2] + "\r\n"
	}

	if err := c.Conn.Write(message); err != nil {
		log.Printf("Server write failed: %s", err)
	}
}
