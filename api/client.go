// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"

	"github.com/juju/names/v5"

	"github.com/juju/apiclient/params"
)

// clientFacadeVersion is the facade version all Client requests
// target.
const clientFacadeVersion = 1

// Client exposes the client-facing facade of the API.
type Client struct {
	st *State
}

// Client returns an object that can be used to access the
// client-facing facade.
func (s *State) Client() *Client {
	return &Client{st: s}
}

func (c *Client) call(ctx context.Context, request string, args, response interface{}) error {
	return c.st.Call(ctx, "Client", clientFacadeVersion, "", request, args, response)
}

// ServiceDeploy obtains the charm and deploys it, creating the
// named service.
func (c *Client) ServiceDeploy(ctx context.Context, charmURL, serviceName string, numUnits int, configYAML, toMachineSpec string) error {
	args := params.ServiceDeploy{
		ServiceName:   serviceName,
		CharmURL:      charmURL,
		NumUnits:      numUnits,
		ConfigYAML:    configYAML,
		ToMachineSpec: toMachineSpec,
	}
	return c.call(ctx, "ServiceDeploy", args, nil)
}

// ServiceGet returns the configuration for the named service.
func (c *Client) ServiceGet(ctx context.Context, service string) (*params.ServiceGetResults, error) {
	var results params.ServiceGetResults
	args := params.ServiceGet{ServiceName: service}
	err := c.call(ctx, "ServiceGet", args, &results)
	if err != nil {
		return nil, err
	}
	return &results, nil
}

// ServiceDestroy destroys the named service.
func (c *Client) ServiceDestroy(ctx context.Context, service string) error {
	args := params.ServiceDestroy{ServiceName: service}
	return c.call(ctx, "ServiceDestroy", args, nil)
}

// AddServiceUnits adds a given number of units to a service.
func (c *Client) AddServiceUnits(ctx context.Context, service string, numUnits int, toMachineSpec string) ([]string, error) {
	args := params.AddServiceUnits{
		ServiceName:   service,
		NumUnits:      numUnits,
		ToMachineSpec: toMachineSpec,
	}
	var results params.AddServiceUnitsResults
	err := c.call(ctx, "AddServiceUnits", args, &results)
	return results.Units, err
}

// DestroyServiceUnits decreases the number of units dedicated to a
// service.
func (c *Client) DestroyServiceUnits(ctx context.Context, unitNames ...string) error {
	args := params.DestroyServiceUnits{UnitNames: unitNames}
	return c.call(ctx, "DestroyServiceUnits", args, nil)
}

// AddMachines adds new machines with the supplied parameters.
func (c *Client) AddMachines(ctx context.Context, machineParams []params.AddMachineParams) ([]params.AddMachinesResult, error) {
	args := params.AddMachines{MachineParams: machineParams}
	var results params.AddMachinesResults
	err := c.call(ctx, "AddMachines", args, &results)
	return results.Machines, err
}

// DestroyMachines removes a given set of machines.
func (c *Client) DestroyMachines(ctx context.Context, machines ...string) error {
	args := params.DestroyMachines{MachineNames: machines}
	return c.call(ctx, "DestroyMachines", args, nil)
}

// GetAnnotations returns annotations that have been set on the given
// entity.
func (c *Client) GetAnnotations(ctx context.Context, tag names.Tag) (map[string]string, error) {
	args := params.GetAnnotations{Tag: tag.String()}
	var results params.GetAnnotationsResults
	err := c.call(ctx, "GetAnnotations", args, &results)
	return results.Annotations, err
}

// SetAnnotations sets the annotation pairs on the given entity.
// Annotations are supported on machines, services, units and the
// environment itself.
func (c *Client) SetAnnotations(ctx context.Context, tag names.Tag, pairs map[string]string) error {
	args := params.SetAnnotations{Tag: tag.String(), Pairs: pairs}
	return c.call(ctx, "SetAnnotations", args, nil)
}

// WatchAll subscribes to changes to the entire entity graph,
// returning an AllWatcher from which the resulting deltas can be
// polled.
func (c *Client) WatchAll(ctx context.Context) (*AllWatcher, error) {
	var info params.AllWatcherId
	if err := c.call(ctx, "WatchAll", nil, &info); err != nil {
		return nil, err
	}
	return newAllWatcher(c.st, &info.AllWatcherId), nil
}
