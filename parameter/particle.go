package parameter

// Animation
const (
	// EaseFactor is the per-tick fraction of remaining distance each particle covers toward its target
	EaseFactor = 0.08

	// MinScale/MaxScale bound the global cloud scale driven by hand openness (closed..open)
	MinScale = 0.45
	MaxScale = 1.75

	// NeutralScale is the scale before any hand input
	NeutralScale = 1.0

	// ScaleSpringFrequency is the angular frequency of the scale spring (rad/s)
	ScaleSpringFrequency = 6.0

	// ScaleSpringDamping is the damping ratio of the scale spring, 1.0 = critically damped (no overshoot)
	ScaleSpringDamping = 1.0

	// MaxRotationSpeed is yaw/pitch rate (rad/s) at full hand offset from center
	MaxRotationSpeed = 2.4

	// IdleSpinSpeed is the yaw rate (rad/s) while no hand is tracked
	IdleSpinSpeed = 0.15

	// MaxPitch limits accumulated pitch so the cloud never flips over (rad)
	MaxPitch = 1.2
)
