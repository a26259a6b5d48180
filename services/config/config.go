// Package config publishes the board plan compiled into the image for a
// device, so every consumer reads the same retained copy off the bus.
package config

import (
	"seed-go/bus"
	"seed-go/errcode"
	"seed-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
)

var TopicPlan = bus.Topic{configPrefix, "plan"}

// EmbeddedPlanLookup allows overriding how plans are resolved.
var EmbeddedPlanLookup = func(device string) (types.BoardPlan, bool) {
	p, ok := embeddedPlans[device]
	if !ok {
		return types.BoardPlan{}, false
	}
	return p(), true
}

// Devices lists the device names with an embedded plan.
func Devices() []string {
	out := make([]string, 0, len(embeddedPlans))
	for k := range embeddedPlans {
		out = append(out, k)
	}
	return out
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Plan resolves and validates the embedded plan for device.
func (s *ConfigService) Plan(device string) (types.BoardPlan, error) {
	plan, ok := EmbeddedPlanLookup(device)
	if !ok {
		return plan, errcode.New(errcode.InvalidParams, "config.plan", "no embedded plan for device "+device)
	}
	if err := plan.Validate(); err != nil {
		return plan, err
	}
	return plan, nil
}

// Publish retains the device plan on TopicPlan.
func (s *ConfigService) Publish(device string, conn *bus.Connection) (types.BoardPlan, error) {
	plan, err := s.Plan(device)
	if err != nil {
		return plan, err
	}
	conn.Publish(conn.NewMessage(TopicPlan, plan, true))
	return plan, nil
}
