package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlanOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	src := "target_sys_hz: 480000000\nsdram:\n  size_bytes: 33554432\naudio:\n  codec: wm8731\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	plan, err := loadPlan(path)
	if err != nil {
		t.Fatalf("loadPlan: %v", err)
	}
	if plan.TargetSysHz != 480_000_000 || plan.SDRAM.SizeBytes != 32<<20 || plan.Audio.Codec != "wm8731" {
		t.Fatalf("overlay not applied: %+v", plan)
	}
	if plan.CrystalHz != 16_000_000 || plan.SDRAM.Base != 0xC000_0000 || plan.Audio.BlockSize != 48 {
		t.Fatalf("defaults lost: %+v", plan)
	}
}

func TestLoadPlanRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("sys_clock: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadPlan(path); err == nil {
		t.Fatal("unknown key accepted")
	}
}
