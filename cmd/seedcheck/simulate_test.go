package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"seed-go/audio"
	"seed-go/platform/sim"
	"seed-go/system"
	"seed-go/types"
)

func TestPassthroughSeriesCorrelate(t *testing.T) {
	board := sim.NewBoard()
	s, err := system.Init(board.Peripherals(), types.DefaultPlan(), board.Options()...)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	board.SAI.Input = func(frame uint64, ch int) uint32 {
		return audio.FloatToS24(float32(0.5 * math.Sin(2*math.Pi*1000*float64(frame)/48000)))
	}
	if err := s.Audio.OnTransferComplete(audio.Passthrough); err != nil {
		t.Fatal(err)
	}
	board.SAI.OnEvent(s.Audio.HandleDMA)
	if err := s.Audio.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		board.SAI.Step()
	}

	in, got := channelSeries(board.SAI.Input, board.SAI.Output, 2)
	if len(got) != 40*48 {
		t.Fatalf("frames = %d, want %d", len(got), 40*48)
	}
	if c := stat.Correlation(in, got, nil); c < 0.999 {
		t.Fatalf("correlation %.4f", c)
	}
	if r := rms(got); math.Abs(r-0.5/math.Sqrt2) > 0.01 {
		t.Fatalf("rms %.4f, want about %.4f", r, 0.5/math.Sqrt2)
	}
}

func TestRMSEmpty(t *testing.T) {
	if rms(nil) != 0 {
		t.Fatalf("rms(nil) != 0")
	}
}
