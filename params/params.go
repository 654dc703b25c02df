// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package params holds the types that cross the wire between an API
// client and the controller. The field names of these structs are the
// wire names; they must not be changed.
package params

// Creds holds the credentials presented by a Login request.
type Creds struct {
	AuthTag  string
	Password string
}

// Address describes one network address of an API server.
type Address struct {
	Value       string
	Type        string
	NetworkName string
	Scope       string
}

// HostPort associates an address with a port.
type HostPort struct {
	Address
	Port int
}

// LoginResult holds the result of a Login request.
type LoginResult struct {
	Servers    [][]HostPort
	EnvironTag string
}

// AllWatcherId holds the id of a newly created server-side watcher,
// as returned by the WatchAll request. The id must accompany every
// subsequent Next or Stop request for that watcher.
type AllWatcherId struct {
	AllWatcherId string
}

// AllWatcherNextResults holds the deltas returned by a single Next
// request on an all-watcher. Order within the batch is significant.
type AllWatcherNextResults struct {
	Deltas []Delta
}

// GetAnnotations stores parameters for making the GetAnnotations call.
type GetAnnotations struct {
	Tag string
}

// GetAnnotationsResults holds annotations associated with an entity.
type GetAnnotationsResults struct {
	Annotations map[string]string
}

// SetAnnotations stores parameters for making the SetAnnotations call.
type SetAnnotations struct {
	Tag   string
	Pairs map[string]string
}

// ServiceDeploy holds the parameters for making the ServiceDeploy call.
type ServiceDeploy struct {
	ServiceName   string
	CharmURL      string
	NumUnits      int
	ConfigYAML    string
	ToMachineSpec string
}

// ServiceGet holds parameters for making the ServiceGet call.
type ServiceGet struct {
	ServiceName string
}

// ServiceGetResults holds results of the ServiceGet call.
type ServiceGetResults struct {
	Service     string
	Charm       string
	Config      map[string]interface{}
	Constraints map[string]interface{}
}

// ServiceDestroy holds the parameters for making the ServiceDestroy call.
type ServiceDestroy struct {
	ServiceName string
}

// AddServiceUnits holds parameters for the AddServiceUnits call.
type AddServiceUnits struct {
	ServiceName   string
	NumUnits      int
	ToMachineSpec string
}

// AddServiceUnitsResults holds the names of the units added by the
// AddServiceUnits call.
type AddServiceUnitsResults struct {
	Units []string
}

// DestroyServiceUnits holds parameters for the DestroyServiceUnits call.
type DestroyServiceUnits struct {
	UnitNames []string
}

// AddMachineParams encapsulates the parameters used to create one
// machine in the AddMachines call.
type AddMachineParams struct {
	Series        string
	ParentId      string
	ContainerType string
}

// AddMachines holds the parameters for making the AddMachines call.
type AddMachines struct {
	MachineParams []AddMachineParams
}

// AddMachinesResult holds the name of a machine added by the
// AddMachines call, or an error that occurred when adding it.
type AddMachinesResult struct {
	Machine string
	Error   *Error
}

// AddMachinesResults holds the results of the AddMachines call.
type AddMachinesResults struct {
	Machines []AddMachinesResult
}

// DestroyMachines holds parameters for making the DestroyMachines call.
type DestroyMachines struct {
	MachineNames []string
	Force        bool
}
