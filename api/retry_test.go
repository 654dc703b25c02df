// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/apiclient/api"
	"github.com/juju/apiclient/params"
	"github.com/juju/apiclient/rpc"
)

type retrySuite struct {
	testing.LoggingSuite
}

var _ = gc.Suite(&retrySuite{})

func (*retrySuite) TestRetriableErrorRetried(c *gc.C) {
	calls := 0
	err := api.WithRetry(clock.WallClock, func() error {
		calls++
		if calls < 3 {
			return &rpc.RequestError{
				Message: "state changing too quickly",
				Code:    params.CodeExcessiveContention,
			}
		}
		return nil
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(calls, gc.Equals, 3)
}

func (*retrySuite) TestFatalErrorNotRetried(c *gc.C) {
	calls := 0
	err := api.WithRetry(clock.WallClock, func() error {
		calls++
		return &rpc.RequestError{
			Message: "invalid credentials",
			Code:    params.CodeUnauthorized,
		}
	})
	c.Assert(err, gc.ErrorMatches, `invalid credentials \(unauthorized access\)`)
	c.Assert(params.ClassifyError(err), gc.Equals, params.ErrorKindAuthentication)
	c.Assert(calls, gc.Equals, 1)
}

func (*retrySuite) TestAttemptsExhausted(c *gc.C) {
	calls := 0
	err := api.WithRetry(clock.WallClock, func() error {
		calls++
		return &rpc.RequestError{
			Message: "try again",
			Code:    params.CodeTryAgain,
		}
	})
	c.Assert(retry.IsAttemptsExceeded(err), jc.IsTrue)
	c.Assert(calls, gc.Equals, 5)
	c.Assert(params.ClassifyError(retry.LastError(err)), gc.Equals, params.ErrorKindRetriable)
}
