// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/juju/apiclient/params"
)

const (
	retryAttempts = 5
	retryDelay    = 50 * time.Millisecond
)

// WithRetry invokes f, retrying with backoff as long as it fails with
// an error the classifier considers retriable. Any other failure,
// including authentication and watcher-stopped errors, is returned
// immediately.
func WithRetry(clk clock.Clock, f func() error) error {
	return retry.Call(retry.CallArgs{
		Clock:       clk,
		Func:        f,
		Attempts:    retryAttempts,
		Delay:       retryDelay,
		BackoffFunc: retry.DoubleDelay,
		IsFatalError: func(err error) bool {
			return params.ClassifyError(err) != params.ErrorKindRetriable
		},
	})
}
