// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params_test

import (
	"encoding/json"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/apiclient/params"
)

type deltaSuite struct{}

var _ = gc.Suite(&deltaSuite{})

func (*deltaSuite) TestUnmarshalMachineChange(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["machine","change",{"Id":"0","InstanceId":"i-123","Status":"started"}]`), &d)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(d, gc.DeepEquals, params.Delta{
		Entity: &params.MachineInfo{
			Id:         "0",
			InstanceId: "i-123",
			Status:     "started",
		},
	})
	c.Assert(d.Entity.EntityId(), gc.Equals, params.EntityId{Kind: "machine", Id: "0"})
}

func (*deltaSuite) TestUnmarshalServiceAlias(c *gc.C) {
	// Older servers report applications under the kind "service".
	var d params.Delta
	err := json.Unmarshal([]byte(`["service","change",{"Name":"wordpress","Exposed":true,"CharmURL":"cs:trusty/wordpress-3"}]`), &d)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(d.Entity, gc.DeepEquals, &params.ApplicationInfo{
		Name:     "wordpress",
		Exposed:  true,
		CharmURL: "cs:trusty/wordpress-3",
	})
	c.Assert(d.Entity.EntityId(), gc.Equals, params.EntityId{Kind: "application", Id: "wordpress"})
}

func (*deltaSuite) TestUnmarshalRemove(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["unit","remove",{"Name":"wordpress/0","Service":"wordpress"}]`), &d)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(d.Removed, jc.IsTrue)
	c.Assert(d.Entity, gc.DeepEquals, &params.UnitInfo{
		Name:    "wordpress/0",
		Service: "wordpress",
	})
}

func (*deltaSuite) TestUnmarshalAnnotation(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["annotation","change",{"Tag":"machine-0","Annotations":{"foo":"bar"}}]`), &d)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(d.Entity, gc.DeepEquals, &params.AnnotationInfo{
		Tag:         "machine-0",
		Annotations: map[string]string{"foo": "bar"},
	})
}

func (*deltaSuite) TestUnmarshalUnknownKind(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["volume","change",{"Id":"0"}]`), &d)
	c.Assert(err, gc.ErrorMatches, `unknown entity kind "volume"`)
	c.Assert(params.IsUnknownEntityKind(err), jc.IsTrue)
}

func (*deltaSuite) TestUnmarshalBadVerb(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["machine","mutate",{"Id":"0"}]`), &d)
	c.Assert(err, gc.ErrorMatches, `unexpected delta verb "mutate"`)
	c.Assert(params.IsUnknownEntityKind(err), jc.IsFalse)
}

func (*deltaSuite) TestUnmarshalWrongElementCount(c *gc.C) {
	var d params.Delta
	err := json.Unmarshal([]byte(`["machine","change"]`), &d)
	c.Assert(err, gc.ErrorMatches, "expected 3 elements in delta, got 2")
}

func (*deltaSuite) TestMarshalRoundTrip(c *gc.C) {
	d := params.Delta{
		Removed: true,
		Entity: &params.ApplicationInfo{
			Name: "mysql",
			Life: params.Dying,
		},
	}
	data, err := json.Marshal(&d)
	c.Assert(err, jc.ErrorIsNil)

	var elements []json.RawMessage
	err = json.Unmarshal(data, &elements)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(elements, gc.HasLen, 3)
	c.Assert(string(elements[0]), gc.Equals, `"application"`)
	c.Assert(string(elements[1]), gc.Equals, `"remove"`)

	var got params.Delta
	err = json.Unmarshal(data, &got)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(got, gc.DeepEquals, d)
}
