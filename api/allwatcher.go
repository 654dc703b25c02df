// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"encoding/json"

	"github.com/kr/pretty"

	"github.com/juju/apiclient/params"
)

// allWatcherFacadeVersion is the facade version all AllWatcher
// requests target.
const allWatcherFacadeVersion = 1

// AllWatcher holds information allowing us to get Deltas describing
// changes to the entire environment. It is only valid while the
// connection that created it is alive and the server-side watcher has
// not been stopped.
type AllWatcher struct {
	st *State
	id *string
}

func newAllWatcher(st *State, id *string) *AllWatcher {
	return &AllWatcher{st: st, id: id}
}

// Next returns a new batch of deltas from a watcher previously
// created by WatchAll. It blocks until there are deltas to return.
// Order within the batch is preserved. A batch entry that cannot be
// decoded, for instance because it names an entity kind this client
// does not know, is logged and skipped; one bad record never loses
// the rest of the batch.
func (w *AllWatcher) Next(ctx context.Context) ([]params.Delta, error) {
	var results struct {
		Deltas []json.RawMessage
	}
	err := w.st.Call(ctx, "AllWatcher", allWatcherFacadeVersion, *w.id, "Next", nil, &results)
	if err != nil {
		return nil, err
	}
	deltas := make([]params.Delta, 0, len(results.Deltas))
	for _, raw := range results.Deltas {
		var d params.Delta
		if err := json.Unmarshal(raw, &d); err != nil {
			logger.Warningf("ignoring undecodable delta %s: %v", raw, err)
			continue
		}
		deltas = append(deltas, d)
	}
	if logger.IsTraceEnabled() {
		logger.Tracef("got deltas: %# v", pretty.Formatter(deltas))
	}
	return deltas, nil
}

// Stop shuts down the server-side watcher. Any Next call blocked on
// it returns an error with code params.CodeStopped.
func (w *AllWatcher) Stop(ctx context.Context) error {
	return w.st.Call(ctx, "AllWatcher", allWatcherFacadeVersion, *w.id, "Stop", nil, nil)
}
