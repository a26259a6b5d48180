// config/config_test.go
package config

import (
	"testing"

	"seed-go/bus"
	"seed-go/errcode"
	"seed-go/platform/sim"
	"seed-go/system"
	"seed-go/types"
)

func TestPublishRetainsPlan(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-config")

	plan, err := NewConfigService().Publish("seed-wm8731", conn)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if plan.Audio.Codec != types.CodecWM8731 {
		t.Fatalf("codec %q", plan.Audio.Codec)
	}

	sub := conn.Subscribe(bus.Topic{configPrefix, bus.Wildcard})
	select {
	case m := <-sub.Channel():
		if m.Topic.String() != "config/plan" || m.Payload.(types.BoardPlan) != plan {
			t.Fatalf("retained %v %+v", m.Topic, m.Payload)
		}
	default:
		t.Fatal("plan not retained")
	}
}

func TestUnknownDevice(t *testing.T) {
	conn := bus.NewBus(4).NewConnection("test-config")
	if _, err := NewConfigService().Publish("pico", conn); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("got %v", err)
	}
}

func TestLookupOverrideIsValidated(t *testing.T) {
	old := EmbeddedPlanLookup
	EmbeddedPlanLookup = func(string) (types.BoardPlan, bool) {
		p := types.DefaultPlan()
		p.TimerPeriodMs = 0
		return p, true
	}
	t.Cleanup(func() { EmbeddedPlanLookup = old })

	if _, err := NewConfigService().Plan("seed"); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("got %v", err)
	}
}

// Every embedded plan must bring up the simulated board.
func TestEmbeddedPlansBringUp(t *testing.T) {
	svc := NewConfigService()
	for _, dev := range Devices() {
		plan, err := svc.Plan(dev)
		if err != nil {
			t.Fatalf("%s: %v", dev, err)
		}
		b := sim.NewBoard()
		if _, err := system.Init(b.Peripherals(), plan, b.Options()...); err != nil {
			t.Fatalf("%s: %v", dev, err)
		}
	}
}
