package main

import (
	"fmt"
	"strings"

	pa "github.com/gordonklaus/portaudio"

	"signalcore/internal/program"
)

const (
	defaultSampleRate     = 44100.0
	defaultFramesPerBuffer = 512
)

// runAudition opens a default portaudio output stream long enough to
// negotiate device parameters against the compiled Program's channel
// count, writes one buffer of silence through the blocking stream, then
// closes it again. It performs no DSP, since numeric DSP and platform audio I/O are
// both out of scope for the compiler core itself (spec.md's
// Non-goals) — this only exercises the device-negotiation path a real
// performer would need.
func runAudition(p *program.Program) error {
	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer pa.Terminate()

	device, err := pa.DefaultOutputDevice()
	if err != nil {
		return fmt.Errorf("default output device: %w", err)
	}

	channels := outputChannelCount(p)
	if device.MaxOutputChannels < channels {
		channels = device.MaxOutputChannels
	}
	out := make([]float32, defaultFramesPerBuffer*channels)

	stream, err := pa.OpenDefaultStream(0, channels, defaultSampleRate, defaultFramesPerBuffer, &out)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	api, _ := pa.DefaultHostApi()
	fmt.Printf("%s\naudio output: %s %s\nchannels: %d\nnegotiated sample rate: %.f\n",
		strings.Split(pa.VersionText(), ",")[0], api.Type, device.Name, channels, stream.Info().SampleRate)

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	for i := range out {
		out[i] = 0
	}
	if err := stream.Write(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return stream.Stop()
}
