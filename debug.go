package journey

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// debugLog writes frame stats at debug level. Only called when the
// scheduler's debug mode is on.
func (s *Scheduler) debugLog(stats FrameStats) {
	s.log.Debug("frame",
		zap.Uint64("frame", stats.Frame),
		zap.Int("visible", stats.Visible),
		zap.Int("draws", stats.Draws),
		zap.Int("renderer_updates", stats.RendererUpdates),
		zap.Int("throttled", stats.Throttled),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failures", stats.Failures),
		zap.Duration("elapsed", stats.Elapsed))
}

// debugMaxDraws is the per-frame draw count above which a warning is logged.
const debugMaxDraws = 6

// debugCheckDraws warns when many scenes repaint in the same frame, which
// usually means sections are too short for the viewport.
func (s *Scheduler) debugCheckDraws(stats FrameStats) {
	if stats.Draws > debugMaxDraws {
		s.log.Warn("many scenes repainted in one frame",
			zap.Uint64("frame", stats.Frame),
			zap.Int("draws", stats.Draws),
			zap.Int("threshold", debugMaxDraws))
	}
}

// formatStats renders stats for the on-screen debug overlay.
func formatStats(stats FrameStats, visible []string) string {
	return fmt.Sprintf("frame %d | visible %d | draws %d | renderer %d | throttled %d | skipped %d\n%v",
		stats.Frame, stats.Visible, stats.Draws, stats.RendererUpdates, stats.Throttled, stats.Skipped, visible)
}

// drawDebug prints scheduler stats along the bottom of the screen.
func (h *Host) drawDebug(screen *ebiten.Image) {
	b := screen.Bounds()
	ebitenutil.DebugPrintAt(screen, formatStats(h.sched.Stats(), h.sched.Visible().IDs()), 8, b.Dy()-40)
}
