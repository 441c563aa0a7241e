package common

// Engine defaults. Velocities are in pixels per step.
const (
	DefaultChunkSize        = 64.0
	DefaultGravity          = 0.5
	DefaultTerminalVelocity = 16.0

	// AngularEpsilon is the angular speed below which rotation stops.
	AngularEpsilon = 1e-5

	TileSize = 32
)
