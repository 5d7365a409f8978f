// Package binder attaches a graph to a live host.
//
// A Binder holds exactly one interpreter for the currently bound graph and
// feeds it triggers, host events and variable writes, either through its
// methods or through the bus topics it subscribes to:
//
//	blueprint.trigger       {entryPoint?}
//	blueprint.event         {eventType, payload}
//	blueprint.variable.set  {name, value}
//	blueprint.variable.get  {name}          replies on blueprint.variable
//	delay.complete          {nodeId}        resumes completed_out
//
// It announces each binding on blueprint.ready {graphId, name} and reports
// failed requests on blueprint.error.
package binder
