package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Conversation is one channel or private correspondent, backed by a
// directory holding an in FIFO and an out log file. The server
// conversation has the blank name and lives at the working directory
// itself.
type Conversation struct {
	// Name is the canonical (case-folded) conversation name.
	Name string

	// in is the FIFO we read user input from.
	in *os.File
}

// addConversation ensures a conversation exists for the given name and
// returns it.
//
// A name the normalizer rejects yields (nil, nil): the operation is a
// no-op and there is no conversation.
//
// An existing conversation is returned as is, unless its backing
// directory disappeared, in which case the stale entry is dropped and the
// conversation recreated.
func (c *Client) addConversation(raw string) (*Conversation, error) {
	name, ok := ircLower(raw)
	if !ok {
		return nil, nil
	}

	if conv, exists := c.Conversations[name]; exists {
		dir := name
		if dir == "" {
			dir = "."
		}
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return conv, nil
		}
		c.removeConversation(name)
	}

	if name != "" {
		if err := os.MkdirAll(name, 0700); err != nil {
			return nil, errors.Wrapf(err,
				"cannot create conversation directory %s", name)
		}
	}

	in, err := c.openFIFO(name)
	if err != nil {
		return nil, err
	}

	conv := &Conversation{Name: name, in: in}
	c.Conversations[name] = conv
	c.conversationOrder = append(c.conversationOrder, name)

	go c.conversationReadLoop(conv)

	return conv, nil
}

// removeConversation drops the conversation and closes its FIFO. The
// directory and the out file stay behind.
func (c *Client) removeConversation(raw string) {
	name, ok := ircLower(raw)
	if !ok {
		return
	}

	conv, exists := c.Conversations[name]
	if !exists {
		return
	}

	_ = conv.in.Close()
	delete(c.Conversations, name)

	for i, n := range c.conversationOrder {
		if n == name {
			c.conversationOrder = append(c.conversationOrder[:i],
				c.conversationOrder[i+1:]...)
			break
		}
	}
}

// openFIFO creates (if necessary) and opens the conversation's in FIFO.
//
// The FIFO is opened read-write even though we only read it: a read-only
// pipe hits EOF every time its last writer disappears, while holding a
// write side ourselves means reads simply block until input arrives.
func (c *Client) openFIFO(name string) (*os.File, error) {
	path := inFile
	if name != "" {
		path = filepath.Join(name, inFile)
	}

	fi, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "cannot stat %s", path)
		}
		if err := unix.Mkfifo(path, 0600); err != nil {
			return nil, errors.Wrapf(err, "cannot create fifo %s", path)
		}
	} else if fi.Mode()&os.ModeNamedPipe == 0 {
		return nil, errors.Errorf("%s exists but is not a fifo", path)
	}

	in, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open fifo %s", path)
	}

	return in, nil
}

// conversationReadLoop endlessly reads lines from a conversation's FIFO
// and passes them to the main loop. It ends when reading fails, normally
// because the conversation was removed and its FIFO closed.
func (c *Client) conversationReadLoop(conv *Conversation) {
	reader := bufio.NewReader(conv.in)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			c.newEvent(Event{
				Type:         ConversationErrEvent,
				Conversation: conv,
				Err:          err,
			})
			return
		}

		c.newEvent(Event{
			Type:         ConversationLineEvent,
			Conversation: conv,
			Line:         strings.TrimRight(line, "\r\n"),
		})
	}
}

// reopenConversation replaces a conversation's FIFO descriptor after a
// read failure. If the reopen fails the conversation is dropped.
func (c *Client) reopenConversation(conv *Conversation) {
	_ = conv.in.Close()

	in, err := c.openFIFO(conv.Name)
	if err != nil {
		log.Printf("Conversation %q: cannot reopen fifo: %s", conv.Name, err)
		c.removeConversation(conv.Name)
		return
	}

	conv.in = in
	go c.conversationReadLoop(conv)
}

// writeOut appends one timestamped line to the conversation's out file,
// materialising the conversation on demand. A line we cannot write after
// that is dropped.
func (c *Client) writeOut(conversation, displayedNick, body string) {
	path := outFile
	if conversation != "" {
		name, ok := ircLower(conversation)
		if !ok {
			return
		}
		if name != "" {
			path = filepath.Join(name, outFile)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		// Lazily materialise the conversation and retry once.
		if _, err := c.addConversation(conversation); err != nil {
			return
		}
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return
		}
	}

	timestamp := time.Now().Format("2006-01-02 15:04")
	fmt.Fprintf(f, "%s <%s> %s\n", timestamp, displayedNick, body)

	if err := f.Close(); err != nil {
		log.Printf("error closing %s: %s", path, err)
	}
}
