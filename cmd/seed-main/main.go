//go:build tinygo && stm32h7

// Command seed-main is the module firmware: bring-up, audio passthrough
// and a heartbeat LED on TIM2.
package main

import (
	"os"
	"time"

	"seed-go/audio"
	"seed-go/bus"
	"seed-go/platform/stm32h7"
	"seed-go/services/config"
	"seed-go/services/heartbeat"
	"seed-go/system"
	"seed-go/x/logx"
)

// device selects the embedded plan; override with -ldflags "-X main.device=seed-wm8731".
var device = "seed"

func main() {
	sink := logx.NewRingSink(4096)
	go drain(sink)
	log := logx.New(sink, "seed")
	conn := bus.NewBus(4).NewConnection("seed")
	plan, err := config.NewConfigService().Publish(device, conn)
	if err != nil {
		system.Halt(log, err)
	}
	log.Info("plan", logx.Str("device", device), logx.Hex("crc", uint32(plan.Fingerprint())))

	board, periph := stm32h7.Take(plan)
	sys, err := system.Init(periph, plan,
		system.WithLogger(log),
		system.WithBus(conn),
		system.WithDMAWindows(stm32h7.DMAWindows()...),
	)
	if err != nil {
		system.Halt(log, err)
	}

	if err := sys.Audio.OnTransferComplete(audio.Passthrough); err != nil {
		system.Halt(log, err)
	}
	board.SAI.OnEvent(sys.Audio.HandleDMA)
	if err := sys.Audio.Start(); err != nil {
		system.Halt(log, err)
	}
	log.Info("audio running",
		logx.U32("rate", plan.TargetAudioHz),
		logx.Int("block", int(plan.Audio.BlockSize)))

	hb := &heartbeat.Service{
		Timer: sys.Timer,
		LED:   sys.GPIO.LED,
		Audio: sys.Audio,
		Log:   log.With("heartbeat"),
	}
	for {
		if !hb.Beat(conn) {
			time.Sleep(time.Millisecond)
		}
	}
}

// drain copies buffered log lines to the console whenever some arrive.
func drain(sink *logx.RingSink) {
	for range sink.Readable() {
		sink.Drain(os.Stdout)
	}
}
