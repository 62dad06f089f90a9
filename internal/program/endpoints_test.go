package program

import (
	"testing"

	"signalcore/internal/ir"
	"signalcore/internal/types"
)

func TestEndpointsEnumeratesEveryProcessor(t *testing.T) {
	p := New(twoProcessorModule())
	eps := p.Endpoints()
	if len(eps) != 1 || eps[0].Name != "out" {
		t.Fatalf("expected exactly [out], got %v", eps)
	}
}

func TestIsConsoleEndpoint(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"console", true},
		{"out", false},
	}
	for _, c := range cases {
		ep := &ir.EndpointInfo{Name: c.name}
		if got := IsConsoleEndpoint(ep); got != c.want {
			t.Errorf("IsConsoleEndpoint(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsMIDIEventEndpoint(t *testing.T) {
	midi := types.NewMIDIMessageType()
	other := types.NewStruct("Message", []types.StructField{{Name: "midiBytes", Type: i32()}}, 7)

	cases := []struct {
		name string
		ep   *ir.EndpointInfo
		want bool
	}{
		{"midi in event", &ir.EndpointInfo{Name: "midiIn", Flow: ir.Event, Type: midi}, true},
		{"console excluded even if typed as midi", &ir.EndpointInfo{Name: "console", Flow: ir.Event, Type: midi}, false},
		{"non-midi struct with same shape", &ir.EndpointInfo{Name: "other", Flow: ir.Event, Type: other}, false},
		{"event endpoint with no type", &ir.EndpointInfo{Name: "bang", Flow: ir.Event}, false},
		{"stream endpoint", &ir.EndpointInfo{Name: "audioIn", Flow: ir.Stream, Type: i32()}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsMIDIEventEndpoint(c.ep); got != c.want {
				t.Errorf("IsMIDIEventEndpoint(%+v) = %v, want %v", c.ep, got, c.want)
			}
		})
	}
}

func TestIsParameterInput(t *testing.T) {
	midi := types.NewMIDIMessageType()

	cases := []struct {
		name string
		ep   *ir.EndpointInfo
		want bool
	}{
		{
			name: "event input excluding midi",
			ep:   &ir.EndpointInfo{Name: "trigger", Direction: ir.In, Flow: ir.Event},
			want: true,
		},
		{
			name: "midi event input excluded",
			ep:   &ir.EndpointInfo{Name: "midiIn", Direction: ir.In, Flow: ir.Event, Type: midi},
			want: false,
		},
		{
			name: "value input with name annotation",
			ep: &ir.EndpointInfo{
				Name: "gain", Direction: ir.In, Flow: ir.ValueFlow,
				Properties: &ir.EndpointProperties{Name: "gain"},
			},
			want: true,
		},
		{
			name: "stream input with no annotations",
			ep:   &ir.EndpointInfo{Name: "audioIn", Direction: ir.In, Flow: ir.Stream},
			want: false,
		},
		{
			name: "output endpoint never a parameter",
			ep: &ir.EndpointInfo{
				Name: "gain", Direction: ir.Out, Flow: ir.ValueFlow,
				Properties: &ir.EndpointProperties{Name: "gain"},
			},
			want: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsParameterInput(c.ep); got != c.want {
				t.Errorf("IsParameterInput(%+v) = %v, want %v", c.ep, got, c.want)
			}
		})
	}
}
