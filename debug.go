package glowtree

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing. Only populated when debug mode is on.
type debugStats struct {
	updateTime time.Duration
	pushTime   time.Duration
	particles  int
	serial     uint64
}

// debugLog prints timing stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[glowtree] mode: %s | update: %v | push: %v | total: %v\n",
		s.driver.Mode, stats.updateTime, stats.pushTime, stats.updateTime+stats.pushTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[glowtree] generation: %d | particles: %d | star: %.2f\n",
		stats.serial, stats.particles, s.driver.Ornament.Scale)
}
