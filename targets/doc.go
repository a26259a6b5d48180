// Package targets holds the TinyGo target used to build cmd/seed-main:
//
//	tinygo flash -target=targets/seed.json ./cmd/seed-main
//
// Run it from the module root; the linker script path is relative to it.
package targets
