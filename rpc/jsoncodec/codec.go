// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package jsoncodec implements the API's JSON wire format on top of a
// message-oriented connection.
package jsoncodec

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/apiclient/rpc"
)

var logger = loggo.GetLogger("apiclient.rpc.jsoncodec")

// JSONConn sends and receives messages to an underlying connection in
// JSON format.
type JSONConn interface {
	// Send sends a message on the connection. It is not called
	// concurrently.
	Send(msg interface{}) error

	// Receive receives a message into msg. It is not called
	// concurrently.
	Receive(msg interface{}) error

	// Close closes the connection. It may be called concurrently and
	// should cause Receive to unblock.
	Close() error
}

// Codec implements rpc.Codec for a connection.
type Codec struct {
	mu      sync.Mutex
	conn    JSONConn
	closing bool

	// msg holds the message that's just been read by ReadHeader, so
	// that the body can be read by ReadBody.
	msg inMsg
}

// New returns an rpc codec that uses conn to send and receive
// messages.
func New(conn JSONConn) *Codec {
	return &Codec{conn: conn}
}

// inMsg holds an incoming message. There is no explicit kind tag on
// the wire: a message with a non-empty Error is an error reply, a
// message with Type or Request set is a request, and anything else is
// a success reply carrying Response.
type inMsg struct {
	RequestId uint64
	Type      string
	Version   int
	Id        string
	Request   string
	Error     string
	ErrorCode string
	Response  json.RawMessage
}

// outMsg holds an outgoing client request.
type outMsg struct {
	RequestId uint64
	Type      string
	Version   int    `json:",omitempty"`
	Id        string `json:",omitempty"`
	Request   string
	Params    interface{} `json:",omitempty"`
}

// Close closes the codec's underlying connection.
func (c *Codec) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Codec) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

// ReadHeader reads the next well-formed envelope from the connection.
// A malformed envelope, or one with no request id, is a protocol
// error confined to that single message: it is reported in the log
// and dropped, and reading continues with the next message.
func (c *Codec) ReadHeader(hdr *rpc.Header) error {
	for {
		var raw json.RawMessage
		if err := c.conn.Receive(&raw); err != nil {
			if c.isClosing() || errors.Is(err, io.EOF) {
				// Handle closed connections the same way as the
				// standard net package does.
				return io.EOF
			}
			return errors.Trace(err)
		}
		if logger.IsTraceEnabled() {
			logger.Tracef("<- %s", raw)
		}
		c.msg = inMsg{}
		if err := json.Unmarshal(raw, &c.msg); err != nil {
			logger.Warningf("ignoring malformed envelope: %v (%s)", err, raw)
			continue
		}
		if c.msg.RequestId == 0 {
			logger.Warningf("ignoring envelope with no request id: %s", raw)
			continue
		}
		break
	}
	hdr.RequestId = c.msg.RequestId
	hdr.Request = rpc.Request{
		Type:    c.msg.Type,
		Version: c.msg.Version,
		Id:      c.msg.Id,
		Action:  c.msg.Request,
	}
	hdr.Error = c.msg.Error
	hdr.ErrorCode = c.msg.ErrorCode
	return nil
}

// ReadBody reads the body of the message read by the last ReadHeader
// into body, or discards it if body is nil.
func (c *Codec) ReadBody(body interface{}) error {
	if body == nil {
		return nil
	}
	rawBody := c.msg.Response
	if len(rawBody) == 0 {
		// An empty body is equivalent to an empty object.
		rawBody = []byte("{}")
	}
	return json.Unmarshal(rawBody, body)
}

// WriteMessage writes an outgoing request envelope.
func (c *Codec) WriteMessage(hdr *rpc.Header, body interface{}) error {
	msg := outMsg{
		RequestId: hdr.RequestId,
		Type:      hdr.Request.Type,
		Version:   hdr.Request.Version,
		Id:        hdr.Request.Id,
		Request:   hdr.Request.Action,
		Params:    body,
	}
	if logger.IsTraceEnabled() {
		data, err := json.Marshal(msg)
		if err != nil {
			logger.Tracef("-> marshal error: %v", err)
			return err
		}
		logger.Tracef("-> %s", data)
	}
	return c.conn.Send(msg)
}
