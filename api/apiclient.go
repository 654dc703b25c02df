// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package api implements the client side of the controller API: a
// facade layer over a single request/response connection, plus the
// all-watcher that reports incremental changes to the cluster's
// entity graph.
package api

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"

	"github.com/juju/apiclient/params"
	"github.com/juju/apiclient/rpc"
)

var logger = loggo.GetLogger("apiclient.api")

// State represents a connection to the controller API. It owns the
// underlying rpc connection: closing the State resolves every
// outstanding call and invalidates any watcher started through it.
type State struct {
	client *rpc.Conn

	// environTag and servers are cached from the Login reply.
	environTag string
	servers    [][]params.HostPort
}

// NewState returns a State running over the given codec. The codec's
// underlying connection must already be established; transport setup
// is the caller's business.
func NewState(codec rpc.Codec) *State {
	client := rpc.NewConn(codec)
	client.Start()
	return &State{client: client}
}

// Call invokes the named request on the entity with the given type,
// facade version and id. If the request fails remotely the returned
// error is a *rpc.RequestError carrying the server's message and
// code; params.ClassifyError tells callers whether it is worth
// retrying.
func (s *State) Call(ctx context.Context, objType string, version int, id, request string, args, response interface{}) error {
	return s.client.Call(ctx, rpc.Request{
		Type:    objType,
		Version: version,
		Id:      id,
		Action:  request,
	}, args, response)
}

// Login authenticates as the entity with the given tag. Subsequent
// requests on the connection act as that entity until the connection
// is closed.
func (s *State) Login(ctx context.Context, tag names.Tag, password string) error {
	var result params.LoginResult
	err := s.Call(ctx, "Admin", 1, "", "Login", &params.Creds{
		AuthTag:  tag.String(),
		Password: password,
	}, &result)
	if err != nil {
		return errors.Annotate(err, "cannot log in")
	}
	s.environTag = result.EnvironTag
	s.servers = result.Servers
	return nil
}

// EnvironTag returns the tag of the environment the connection is
// bound to, as reported by Login.
func (s *State) EnvironTag() string {
	return s.environTag
}

// APIHostPorts returns the addresses of all known API servers, as
// reported by Login.
func (s *State) APIHostPorts() [][]params.HostPort {
	return s.servers
}

// Close shuts down the connection. It is idempotent, and it returns
// only after every outstanding call has been resolved with a
// connection-lost failure.
func (s *State) Close() error {
	return s.client.Close()
}

// Dead returns a channel that is closed when the connection is lost.
func (s *State) Dead() <-chan struct{} {
	return s.client.Dead()
}
