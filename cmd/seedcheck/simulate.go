package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"seed-go/audio"
	"seed-go/bus"
	"seed-go/platform/sim"
	"seed-go/services/heartbeat"
	"seed-go/system"
	"seed-go/types"
	"seed-go/x/logx"
)

var (
	simOpts = struct {
		blocks     int
		toneHz     float64
		stuckPLL   int
		corruptMPU bool
		verbose    bool
	}{}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run bring-up and the audio path on a simulated board",
		RunE:  runSimulate,
	}
)

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simOpts.blocks, "blocks", "n", 400, "Audio half-transfers to run after bring-up")
	f.Float64Var(&simOpts.toneHz, "tone", 1000, "Input sine frequency in Hz")
	f.IntVar(&simOpts.stuckPLL, "stuck-pll", 0, "Keep PLL n (1-3) from locking")
	f.BoolVar(&simOpts.corruptMPU, "corrupt-mpu", false, "Make MPU region readback mismatch")
	f.BoolVarP(&simOpts.verbose, "verbose", "v", false, "Show debug log lines")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}

	board := sim.NewBoard()
	if simOpts.stuckPLL != 0 {
		board.RCC.NoLock = map[system.PLL]bool{system.PLL(simOpts.stuckPLL): true}
	}
	board.MPU.Corrupt = simOpts.corruptMPU

	log := logx.New(logWriter{}, "seedcheck")
	if simOpts.verbose {
		log.SetLevel(logx.LevelDebug)
	}

	b := bus.NewBus(32)
	conn := b.NewConnection("seedcheck")
	status := conn.Subscribe(system.TopicBringup)
	defer conn.Disconnect()

	opts := append(board.Options(), system.WithLogger(log), system.WithBus(conn))
	s, initErr := system.Init(board.Peripherals(), plan, opts...)

	out.head("phases")
	for done := false; !done; {
		select {
		case m := <-status.Channel():
			st := m.Payload.(types.BringupStatus)
			switch st.State {
			case types.StateFailed:
				out.color(ansiRed, "  %-14s %s %s\n", st.Phase, st.State, st.Code)
			case types.StateDone:
				out.color(ansiGreen, "  %-14s %s\n", st.Phase, st.State)
			default:
				out.row(st.Phase, st.State)
			}
		default:
			done = true
		}
	}
	if initErr != nil {
		return initErr
	}
	out.ok("bring-up complete, %d ops", len(board.Trace.Ops()))

	rate := float64(plan.TargetAudioHz)
	board.SAI.Input = func(frame uint64, ch int) uint32 {
		return audio.FloatToS24(float32(0.5 * math.Sin(2*math.Pi*simOpts.toneHz*float64(frame)/rate)))
	}
	if err := s.Audio.OnTransferComplete(audio.Passthrough); err != nil {
		return err
	}
	board.SAI.OnEvent(s.Audio.HandleDMA)
	if err := s.Audio.Start(); err != nil {
		return err
	}
	hb := &heartbeat.Service{Timer: board.TIM2, LED: s.GPIO.LED, Audio: s.Audio, Log: log.With("heartbeat")}
	perBeat := int(plan.TimerPeriodMs) * int(plan.TargetAudioHz) / 1000 / int(plan.Audio.BlockSize)
	for i := 0; i < simOpts.blocks; i++ {
		board.SAI.Step()
		if perBeat > 0 && (i+1)%perBeat == 0 {
			board.TIM2.Tick()
			hb.Beat(conn)
		}
	}

	in, got := channelSeries(board.SAI.Input, board.SAI.Output, int(plan.Audio.Channels))
	var peak float64
	if len(got) > 0 {
		peak = floats.Max(got)
	}
	st := s.Audio.Stats()
	out.head("audio")
	out.row("transfers", st.Transfers)
	out.row("overruns", st.Overruns)
	out.row("skipped", st.Skipped)
	out.row("peak", fmt.Sprintf("%.3f", peak))
	out.row("rms", fmt.Sprintf("%.3f", rms(got)))
	out.row("correlation", fmt.Sprintf("%.4f", stat.Correlation(in, got, nil)))
	out.row("led toggles", hb.Beats())
	out.ok("passthrough ran %d blocks", simOpts.blocks)
	return nil
}

// channelSeries returns the first channel of the input and of what the
// path transmitted, frame aligned.
func channelSeries(input func(uint64, int) uint32, output []uint32, channels int) (in, got []float64) {
	if channels < 1 {
		channels = 1
	}
	n := len(output) / channels
	in = make([]float64, n)
	got = make([]float64, n)
	for f := 0; f < n; f++ {
		in[f] = float64(audio.S24ToFloat(input(uint64(f), 0)))
		got[f] = float64(audio.S24ToFloat(output[f*channels]))
	}
	return in, got
}

func rms(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Norm(xs, 2) / math.Sqrt(float64(len(xs)))
}

// logWriter sends formatted log lines through the colour printer.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 && p[len(p)-1] == '\n' {
		p = p[:len(p)-1]
	}
	out.line(string(p))
	return n, nil
}
