package program

import (
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// consoleEndpointName is the reserved endpoint name spec.md §6 marks
// as console output ("an endpoint named like the internal console
// name is marked as console output"), grounded on soul_Endpoints.cpp's
// ASTUtilities::getConsoleEndpointInternalName.
const consoleEndpointName = "console"

// Endpoints enumerates every endpoint of every processor/graph the
// Program owns, the EndpointDetails vector spec.md §6 describes as
// "consumed by the performer".
func (p *Program) Endpoints() []*ir.EndpointInfo {
	var out []*ir.EndpointInfo
	for _, proc := range p.mod.Processors {
		out = append(out, proc.Endpoints...)
	}
	return out
}

// IsConsoleEndpoint reports whether ep is the reserved console output
// endpoint.
func IsConsoleEndpoint(ep *ir.EndpointInfo) bool {
	return ep.Name == consoleEndpointName
}

// IsMIDIEventEndpoint reports whether ep is an event endpoint whose
// sole data type is the built-in MIDI message struct, excluding the
// console endpoint even if it were ever declared with that type
// (spec.md §6's MIDI schema; grounded on soul_Endpoints.cpp's
// isMIDIEventEndpoint).
func IsMIDIEventEndpoint(ep *ir.EndpointInfo) bool {
	return ep.Flow == ir.Event && ep.Type != nil && types.IsMIDIMessageType(ep.Type) && !IsConsoleEndpoint(ep)
}

// IsParameterInput reports whether ep should be exposed to a host as
// an automatable parameter: every non-MIDI event input, or a
// stream/value input carrying a "name" annotation (spec.md §6,
// grounded on soul_Endpoints.cpp's isParameterInput — SOUL calls that
// check only over the input-endpoint collection, which this mirrors
// with an explicit Direction guard since EndpointInfo lists both
// directions together).
func IsParameterInput(ep *ir.EndpointInfo) bool {
	if ep.Direction != ir.In {
		return false
	}
	if ep.Flow == ir.Event {
		return !IsMIDIEventEndpoint(ep)
	}
	return ep.Properties != nil && ep.Properties.Name != ""
}
