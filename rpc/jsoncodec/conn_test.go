// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jsoncodec_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/apiclient/rpc"
	"github.com/juju/apiclient/rpc/jsoncodec"
)

type connSuite struct {
	testing.LoggingSuite
}

var _ = gc.Suite(&connSuite{})

var upgrader = websocket.Upgrader{}

func (*connSuite) TestWebsocketRoundTrip(c *gc.C) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		var msg map[string]interface{}
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		ws.WriteJSON(map[string]interface{}{
			"RequestId": msg["RequestId"],
			"Response":  map[string]interface{}{"Val": "pong"},
		})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	c.Assert(err, jc.ErrorIsNil)
	codec := jsoncodec.NewWebsocket(ws)
	defer codec.Close()

	err = codec.WriteMessage(&rpc.Header{
		RequestId: 1,
		Request: rpc.Request{
			Type:    "Test",
			Version: 1,
			Action:  "Ping",
		},
	}, struct{}{})
	c.Assert(err, jc.ErrorIsNil)

	var hdr rpc.Header
	err = codec.ReadHeader(&hdr)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(hdr.RequestId, gc.Equals, uint64(1))
	var body stringVal
	err = codec.ReadBody(&body)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(body, gc.Equals, stringVal{Val: "pong"})
}

func (*connSuite) TestWebsocketCloseTranslatesToEOF(c *gc.C) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	c.Assert(err, jc.ErrorIsNil)
	codec := jsoncodec.NewWebsocket(ws)
	defer codec.Close()

	var hdr rpc.Header
	err = codec.ReadHeader(&hdr)
	c.Assert(err, gc.Equals, io.EOF)
}
