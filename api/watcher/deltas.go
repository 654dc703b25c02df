// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package watcher turns the poll-driven all-watcher API into a
// stream of delta batches delivered on a channel.
package watcher

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/worker/v4"
	"gopkg.in/tomb.v2"

	"github.com/juju/apiclient/params"
	"github.com/juju/apiclient/rpc"
)

var logger = loggo.GetLogger("apiclient.api.watcher")

// AllWatcher is the capability the stream consumes: the Next/Stop
// surface of a server-side watcher started with WatchAll.
type AllWatcher interface {
	Next(ctx context.Context) ([]params.Delta, error)
	Stop(ctx context.Context) error
}

// DeltaStream polls an AllWatcher and delivers each batch of deltas,
// in arrival order, on its Changes channel. There is at most one Next
// call outstanding at any time, and a batch is always delivered
// before the following Next call is issued.
type DeltaStream struct {
	tomb    tomb.Tomb
	watcher AllWatcher
	out     chan []params.Delta
}

var _ worker.Worker = (*DeltaStream)(nil)

// NewDeltaStream returns a DeltaStream polling the given watcher. The
// stream runs until it is killed, the server stops the watcher, or
// the underlying connection is lost; the two latter conditions are
// terminal errors reported by Wait.
func NewDeltaStream(w AllWatcher) *DeltaStream {
	ds := &DeltaStream{
		watcher: w,
		out:     make(chan []params.Delta),
	}
	ds.tomb.Go(ds.loop)
	return ds
}

// Changes returns the channel on which delta batches are delivered.
// It is closed when the stream terminates.
func (ds *DeltaStream) Changes() <-chan []params.Delta {
	return ds.out
}

// Kill asks the stream to stop without waiting for it to do so.
func (ds *DeltaStream) Kill() {
	ds.tomb.Kill(nil)
}

// Wait waits for the stream to terminate and returns the terminal
// condition: nil after Kill, or the connection-lost or
// watcher-stopped failure that ended the stream. It reports that
// condition exactly once regardless of how many goroutines wait.
func (ds *DeltaStream) Wait() error {
	return ds.tomb.Wait()
}

func (ds *DeltaStream) loop() error {
	defer close(ds.out)

	// Stop the server-side watcher when dying, so that an in-flight
	// Next call on the server returns promptly rather than blocking
	// until the next delta materialises.
	ds.tomb.Go(func() error {
		<-ds.tomb.Dying()
		if err := ds.watcher.Stop(context.Background()); err != nil {
			if !rpc.IsShutdownErr(err) && !params.IsCodeStopped(err) {
				logger.Warningf("error stopping watcher: %v", err)
			}
		}
		return nil
	})

	for {
		deltas, err := ds.watcher.Next(context.Background())
		if err != nil {
			select {
			case <-ds.tomb.Dying():
				// The failure is a consequence of our own Stop call;
				// this is a clean shutdown, not a terminal error.
				return tomb.ErrDying
			default:
			}
			if params.IsCodeStopped(err) {
				return errors.Annotate(err, "watcher stopped by server")
			}
			return errors.Trace(err)
		}
		select {
		case ds.out <- deltas:
		case <-ds.tomb.Dying():
			return tomb.ErrDying
		}
	}
}
