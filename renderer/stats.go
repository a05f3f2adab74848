package renderer

import "time"

type FrameStats struct {
	// Number of frames rendered so far.
	Frames uint64

	// Renderables attached to the scene root and their total vertex count.
	Attached int
	Vertices int

	// Time spent in the frame callback and drawing.
	FrameTime    time.Duration
	AvgFrameTime time.Duration
	MaxFrameTime time.Duration

	// Time since the first frame.
	Uptime time.Duration
}
