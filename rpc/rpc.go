// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("apiclient.rpc")

// A Codec implements reading and writing of messages in an RPC
// session. The connection calls WriteMessage to send a request and
// calls ReadHeader and ReadBody in pairs to read replies.
type Codec interface {
	// ReadHeader reads a message header into hdr.
	ReadHeader(hdr *Header) error

	// ReadBody reads a message body into the given body value. The
	// body value will be a non-nil struct pointer, or nil to signify
	// that the body should be read and discarded.
	ReadBody(body interface{}) error

	// WriteMessage writes a message with the given header and body.
	// The body will always be a struct.
	WriteMessage(hdr *Header, body interface{}) error

	// Close closes the codec. It may be called concurrently and
	// should cause the Read methods to unblock.
	Close() error
}

// Request holds the name of an API request and the entity it acts on.
type Request struct {
	// Type holds the type of entity to act on.
	Type string

	// Version holds the version of the facade the request targets.
	Version int

	// Id holds the id of the entity to act on.
	Id string

	// Action holds the action to perform on the entity.
	Action string
}

// Header is a header written before every RPC message. A header
// either carries a request (when its Request field is set) or a reply
// to an outstanding request; replies carrying a non-empty Error are
// error replies. There is no explicit envelope-kind tag on the wire,
// so the distinction is made on structural shape alone.
type Header struct {
	// RequestId holds the sequence number of the request.
	RequestId uint64

	// Request holds the action to invoke on the remote entity.
	Request Request

	// Error holds the error, if any.
	Error string

	// ErrorCode holds the code of the error, if any.
	ErrorCode string
}

// IsRequest returns whether the header represents an RPC request. If
// it is not a request, it is a response.
func (hdr *Header) IsRequest() bool {
	return hdr.Request.Type != "" || hdr.Request.Action != ""
}

// ErrShutdown is returned from outstanding and subsequent calls when
// the connection has been, or is being, shut down. Every pending call
// is resolved with it when the connection is lost, so no caller ever
// waits forever past connection loss.
const ErrShutdown = errors.ConstError("connection is shut down")

// IsShutdownErr returns true if the error is ErrShutdown.
func IsShutdownErr(err error) bool {
	return errors.Is(err, ErrShutdown)
}

// ErrorCoder represents an error that has an associated error code. An
// error code is a short string that represents the kind of an error.
type ErrorCoder interface {
	ErrorCode() string
}

// Conn represents the client side of a single logical RPC connection.
// There may be multiple outstanding Calls associated with a single
// Conn, and it may be used by multiple goroutines simultaneously.
// Once shut down a Conn cannot be restarted; a fresh Conn on a fresh
// codec is required to reconnect.
type Conn struct {
	// codec holds the underlying connection.
	codec Codec

	// sending guards the write side of the codec - it ensures that
	// codec.WriteMessage is not called concurrently. It also
	// serializes request id allocation with the write, so ids appear
	// on the wire in allocation order.
	sending sync.Mutex

	// mutex guards the following values.
	mutex sync.Mutex

	// reqId holds the latest request id.
	reqId uint64

	// clientPending holds all pending requests, keyed by request id.
	clientPending map[uint64]*Call

	// tombstones holds ids of cancelled requests whose replies have
	// not yet arrived. A reply matching a tombstone is not a protocol
	// violation.
	tombstones map[uint64]struct{}

	// closing is set when the connection is shutting down via Close.
	// When this is set, no more requests will be initiated.
	closing bool

	// shutdown is set when the input loop terminates. When this is
	// set, no more requests will be sent to the server.
	shutdown bool

	// dead is closed when the input loop terminates.
	dead chan struct{}

	// inputLoopError holds the error that caused the input loop to
	// terminate prematurely. It is set before dead is closed.
	inputLoopError error
}

// NewConn creates a new connection that uses the given codec for
// transport, but it does not start it. Conn.Start must be called
// before any requests are sent.
func NewConn(codec Codec) *Conn {
	return &Conn{
		codec:         codec,
		clientPending: make(map[uint64]*Call),
		tombstones:    make(map[uint64]struct{}),
	}
}

// Start starts the connection running. It must be called once for
// any connection; it has no effect if it has already been called.
func (conn *Conn) Start() {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	if conn.dead == nil {
		conn.dead = make(chan struct{})
		go conn.input()
	}
}

// Dead returns a channel that is closed when the connection has been
// closed or the underlying transport has received an error. There may
// still be outstanding requests.
func (conn *Conn) Dead() <-chan struct{} {
	return conn.dead
}

// Close closes the connection and its underlying codec; it returns
// when all outstanding requests have been resolved. Close is
// idempotent: closing an already-closed connection has no further
// effect and returns nil.
func (conn *Conn) Close() error {
	conn.mutex.Lock()
	if conn.dead == nil {
		// Never started; there is no input loop to wait for, and the
		// codec has already been closed if this is a repeat call.
		if conn.closing {
			conn.mutex.Unlock()
			return nil
		}
		conn.closing = true
		conn.shutdown = true
		conn.mutex.Unlock()
		return conn.codec.Close()
	}
	if conn.closing {
		conn.mutex.Unlock()
		<-conn.dead
		return nil
	}
	conn.closing = true
	conn.mutex.Unlock()

	// Closing the codec causes the input loop to terminate, which
	// resolves every pending call with ErrShutdown.
	if err := conn.codec.Close(); err != nil {
		logger.Infof("error closing codec: %v", err)
	}
	<-conn.dead
	return conn.inputLoopError
}

// input reads messages from the connection and handles them
// appropriately. When the loop terminates, for whatever reason, every
// pending call is resolved with the terminating error.
func (conn *Conn) input() {
	err := conn.loop()
	conn.sending.Lock()
	defer conn.sending.Unlock()
	conn.mutex.Lock()
	defer conn.mutex.Unlock()

	if conn.closing || errors.Is(err, io.EOF) {
		err = ErrShutdown
	} else {
		// Make the error available for Conn.Close to see.
		conn.inputLoopError = err
	}
	// Terminate all pending requests.
	for _, call := range conn.clientPending {
		call.Error = err
		call.done()
	}
	conn.clientPending = nil
	conn.shutdown = true
	close(conn.dead)
}

// loop implements the looping part of Conn.input.
func (conn *Conn) loop() error {
	for {
		var hdr Header
		err := conn.codec.ReadHeader(&hdr)
		if err != nil {
			return err
		}
		if hdr.IsRequest() {
			// This is a client-only connection; the server must not
			// initiate requests on it. Report the violation and drop
			// the message rather than killing the connection.
			logger.Warningf("ignoring unexpected server-initiated request %v", hdr.Request)
			err = conn.readBody(nil)
		} else {
			err = conn.handleResponse(&hdr)
		}
		if err != nil {
			return err
		}
	}
}

func (conn *Conn) readBody(resp interface{}) error {
	return conn.codec.ReadBody(resp)
}
