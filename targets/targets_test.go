package targets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
)

type target struct {
	Inherits     []string `json:"inherits"`
	BuildTags    []string `json:"build-tags"`
	LinkerScript string   `json:"linkerscript"`
}

func load(t *testing.T) target {
	t.Helper()
	b, err := os.ReadFile("seed.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var tg target
	if err := json.Unmarshal(b, &tg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tg
}

func TestTargetSelectsPlatform(t *testing.T) {
	tg := load(t)
	found := false
	for _, tag := range tg.BuildTags {
		if tag == "stm32h7" {
			found = true
		}
	}
	if !found {
		t.Fatalf("build tags %v lack stm32h7", tg.BuildTags)
	}
	if len(tg.Inherits) != 1 || tg.Inherits[0] != "cortex-m7" {
		t.Fatalf("inherits %v", tg.Inherits)
	}
	// The script path is relative to the module root.
	if _, err := os.Stat(filepath.Join("..", tg.LinkerScript)); err != nil {
		t.Fatalf("linker script: %v", err)
	}
}

var memLine = regexp.MustCompile(`(?m)^\s*(\w+)\s*\([a-z]+\)\s*:\s*ORIGIN\s*=\s*(0x[0-9A-Fa-f]+)\s*,\s*LENGTH\s*=\s*(\d+)K`)

func TestRAMIsDMAReachable(t *testing.T) {
	b, err := os.ReadFile("seed.ld")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	regions := map[string][2]uint64{}
	for _, m := range memLine.FindAllStringSubmatch(string(b), -1) {
		org, _ := strconv.ParseUint(m[2], 0, 32)
		kb, _ := strconv.ParseUint(m[3], 10, 32)
		regions[m[1]] = [2]uint64{org, kb << 10}
	}
	ram, ok := regions["RAM"]
	if !ok {
		t.Fatalf("no RAM region in %v", regions)
	}
	// AXI SRAM, the first of platform/stm32h7.DMAWindows.
	const axiBase, axiSize = 0x2400_0000, 512 << 10
	if ram[0] < axiBase || ram[0]+ram[1] > axiBase+axiSize {
		t.Fatalf("RAM %#x+%#x outside AXI SRAM", ram[0], ram[1])
	}
	if fl := regions["FLASH_TEXT"]; fl != [2]uint64{0x0800_0000, 128 << 10} {
		t.Fatalf("flash %#x+%#x", fl[0], fl[1])
	}
}
