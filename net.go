package main

import (
	"bufio"
	"log"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Conn is a connection to the IRC server.
type Conn struct {
	// conn: The connection if we are actively connected.
	conn net.Conn

	// rw: Read/write handle to the connection
	rw *bufio.ReadWriter

	// Log every line read and written.
	debug bool
}

// NewConn initializes a Conn struct
func NewConn(conn net.Conn, debug bool) *Conn {
	return &Conn{
		conn:  conn,
		rw:    bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		debug: debug,
	}
}

// Close closes the underlying connection
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// ReadLine reads a line from the connection. The returned line has its
// line ending stripped.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.rw.ReadString('\n')
	if err != nil {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")

	if c.debug {
		log.Printf("Read: %s", line)
	}

	return line, nil
}

// Write writes a string to the connection
func (c *Conn) Write(s string) error {
	sz, err := c.rw.WriteString(s)
	if err != nil {
		return err
	}

	if sz != len(s) {
		return errors.New("short write")
	}

	if err := c.rw.Flush(); err != nil {
		return errors.Wrap(err, "flush error")
	}

	if c.debug {
		log.Printf("Sent: %s", strings.TrimRight(s, "\r\n"))
	}

	return nil
}
