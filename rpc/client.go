// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"

	"github.com/juju/errors"
)

// Call represents an active RPC.
type Call struct {
	Request
	Params   interface{}
	Response interface{}
	Error    error
	Done     chan *Call
}

// RequestError represents an error returned from an RPC request.
type RequestError struct {
	Message string
	Code    string
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

// ErrorCode returns the error code associated with the error.
func (e *RequestError) ErrorCode() string {
	return e.Code
}

// send allocates the next request id, registers the call as pending
// and writes its envelope to the codec. It returns the allocated id,
// or zero if the call was resolved without being sent. Allocation and
// write happen under the sending lock, so back-to-back sends can
// never collide or reorder ids on the wire.
func (conn *Conn) send(call *Call) uint64 {
	conn.sending.Lock()
	defer conn.sending.Unlock()

	// Register this call.
	conn.mutex.Lock()
	if conn.dead == nil {
		call.Error = errors.New("rpc: call made when connection not started")
		conn.mutex.Unlock()
		call.done()
		return 0
	}
	if conn.closing || conn.shutdown {
		call.Error = ErrShutdown
		conn.mutex.Unlock()
		call.done()
		return 0
	}
	conn.reqId++
	reqId := conn.reqId
	conn.clientPending[reqId] = call
	conn.mutex.Unlock()

	// Encode and send the request.
	hdr := &Header{
		RequestId: reqId,
		Request:   call.Request,
	}
	params := call.Params
	if params == nil {
		params = struct{}{}
	}
	if err := conn.codec.WriteMessage(hdr, params); err != nil {
		conn.mutex.Lock()
		call = conn.clientPending[reqId]
		delete(conn.clientPending, reqId)
		conn.mutex.Unlock()
		if call != nil {
			call.Error = err
			call.done()
		}
	}
	return reqId
}

// cancel abandons the pending call with the given id. A reply that
// later arrives for it is discarded silently.
func (conn *Conn) cancel(reqId uint64) {
	conn.mutex.Lock()
	conn.tombstones[reqId] = struct{}{}
	delete(conn.clientPending, reqId)
	conn.mutex.Unlock()
}

// handleResponse resolves the pending call matching the reply's
// request id. Each id resolves at most once: the pending entry is
// deleted before its outcome is delivered, so a duplicate reply takes
// the unmatched branch below and is reported rather than applied.
func (conn *Conn) handleResponse(hdr *Header) error {
	reqId := hdr.RequestId
	conn.mutex.Lock()
	call := conn.clientPending[reqId]
	delete(conn.clientPending, reqId)
	conn.mutex.Unlock()

	defer func() {
		conn.mutex.Lock()
		// Always remove the tombstone after a reply to prevent
		// unbounded growth.
		delete(conn.tombstones, reqId)
		conn.mutex.Unlock()
	}()

	var err error
	switch {
	case call == nil:
		// There is no pending call with this id. Unless the call was
		// cancelled, the server is misbehaving (a duplicate reply, or
		// a reply we never asked for); report it so malformed servers
		// surface in diagnostics, but don't kill the connection.
		err = conn.readBody(nil)
		conn.mutex.Lock()
		_, cancelled := conn.tombstones[reqId]
		conn.mutex.Unlock()
		if !cancelled {
			logger.Warningf("reply with unknown request id %d (error %q)", reqId, hdr.Error)
		}
	case hdr.Error != "":
		// We've got an error response. Give this to the request.
		call.Error = &RequestError{
			Message: hdr.Error,
			Code:    hdr.ErrorCode,
		}
		err = conn.readBody(nil)
		call.done()
	default:
		err = conn.readBody(call.Response)
		call.done()
	}
	return err
}

// done delivers the call's outcome. The Done channel is buffered, so
// a call can be resolved at most once and resolution never blocks the
// input loop; a second delivery attempt for the same call indicates a
// programming error and is reported.
func (call *Call) done() {
	select {
	case call.Done <- call:
	default:
		logger.Errorf("discarding duplicate resolution of request (insufficient Done chan capacity)")
	}
}

// Call invokes the named action on the entity of the given type and
// id. The result is stored in response, which should be a pointer; it
// may be nil to discard the result. If the action fails remotely, the
// returned error has type *RequestError.
//
// The context composes with, but does not replace, resolution through
// connection shutdown: cancelling it abandons the call locally while
// the connection stays usable.
func (conn *Conn) Call(ctx context.Context, req Request, params, response interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	call := &Call{
		Request:  req,
		Params:   params,
		Response: response,
		Done:     make(chan *Call, 1),
	}
	reqId := conn.send(call)
	if reqId == 0 {
		if call.Error != nil {
			return call.Error
		}
		return ErrShutdown
	}

	select {
	case <-ctx.Done():
		conn.cancel(reqId)
		return ctx.Err()
	case result := <-call.Done:
		return result.Error
	}
}
