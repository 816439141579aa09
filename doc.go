// Package journey is a scroll-driven narrative animation engine for
// [Ebitengine].
//
// A page is a vertical stack of sections. Each section owns one canvas and
// is bound to one scene. As the page scrolls, every section's position is
// turned into a progress value in [0, 1] and the visible scenes are asked
// to paint themselves for that progress.
//
// # Quick start
//
//	host, err := journey.NewHost(journey.HostConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := journey.Run(host, journey.RunConfig{
//		Title: "Journey", Width: 1280, Height: 720, Resizable: true,
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// # Progress
//
// [Progress] maps a section's viewport-relative [Box] to
// (viewportHeight - top) / (viewportHeight + height), clamped to [0, 1].
// It is 0 until the section's top reaches the bottom of the viewport and 1
// once the section has scrolled completely past the top. Scenes split
// progress into phases with [Phase] and interpolate linearly within each.
//
// # Scenes
//
// A [Scene] is either a [StatelessScene], a pure draw callback that repaints
// its whole canvas from a [Frame], or a [StatefulScene], whose [Renderer] is
// created the first time the scene becomes visible and then updated every
// frame. [Scenes] returns the built-in narrative, including the
// gravitational lensing renderer ([LensRenderer]).
//
// Draw callbacks paint through the backend-neutral [Canvas]. On screen it is
// an [ImageCanvas] over an *ebiten.Image; in tests a [RecordingCanvas]
// records every call instead.
//
// # Scheduling
//
// The [Scheduler] runs once per tick. Only scenes in the visible set (the
// viewport grown by [DefaultVisibilityMargin]) are touched. Stateful scenes
// update every frame; stateless scenes repaint on odd frames only and only
// when their progress moved by more than [DefaultEpsilon]. Scenes flagged
// Autonomous repaint every frame.
//
// A scene that panics is logged and retried on the next frame; after
// [DefaultFailureLimit] consecutive failures it is disabled for the rest of
// the mount. Other scenes are unaffected.
//
// Canvases are reallocated once resizing has been quiet for
// [DefaultResizeDebounce]. A built [LensRenderer] debounces resizes on its
// own and applies the settled size on its next update.
//
// # Threading
//
// Everything runs on the game loop goroutine. The only background work is
// the lens shader compile, which is exposed as a [Future] and polled.
//
// # Content
//
// Section titles, subtitles and heights come from a YAML document. See
// [LoadContent] and [DefaultContent].
//
// # Automated runs
//
// [LoadTestScript] reads a JSON script of scroll, resize, wait and
// screenshot steps; attach it with [Host.SetTestRunner]. Screenshots are
// written as PNG files to [Host.ScreenshotDir].
//
// [Ebitengine]: https://ebitengine.org
package journey
