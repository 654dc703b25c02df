// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jsoncodec

import (
	"encoding/json"
	"io"
	"net"

	"github.com/gorilla/websocket"
)

// NewWebsocket returns an rpc codec that uses the given websocket
// connection to send and receive messages. The connection must
// already be established; dialling and TLS are the caller's business.
func NewWebsocket(conn *websocket.Conn) *Codec {
	return New(&wsJSONConn{conn: conn})
}

type wsJSONConn struct {
	conn *websocket.Conn
}

func (conn *wsJSONConn) Send(msg interface{}) error {
	return conn.conn.WriteJSON(msg)
}

func (conn *wsJSONConn) Receive(msg interface{}) error {
	err := conn.conn.ReadJSON(msg)
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure) {
		// Treat a closed peer like any other closed connection.
		return io.EOF
	}
	return err
}

func (conn *wsJSONConn) Close() error {
	return conn.conn.Close()
}

// NewNet returns an rpc codec that uses the given net connection to
// send and receive messages.
func NewNet(conn net.Conn) *Codec {
	return New(&netJSONConn{
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		closer: conn,
	})
}

type netJSONConn struct {
	enc    *json.Encoder
	dec    *json.Decoder
	closer io.Closer
}

func (conn *netJSONConn) Send(msg interface{}) error {
	return conn.enc.Encode(msg)
}

func (conn *netJSONConn) Receive(msg interface{}) error {
	return conn.dec.Decode(msg)
}

func (conn *netJSONConn) Close() error {
	return conn.closer.Close()
}
