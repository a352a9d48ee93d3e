package parameter

// Shape geometry in scene units
const (
	// ShapeRadius is the nominal bounding radius every shape is scaled to
	ShapeRadius = 5.0

	// StarPoints is the number of star tips
	StarPoints = 5

	// StarInnerRatio is inner vertex radius relative to tip radius (regular pentagram)
	StarInnerRatio = 0.382

	// StarDepth is the z thickness of the star outline
	StarDepth = 0.6

	// TorusMinorRatio is tube radius relative to ShapeRadius
	TorusMinorRatio = 0.28

	// HelixTurns is the number of full turns of the DNA helix
	HelixTurns = 3.0

	// HelixRadiusRatio is strand radius relative to ShapeRadius
	HelixRadiusRatio = 0.35

	// HelixRungEvery places every n-th particle on a base-pair rung
	HelixRungEvery = 10

	// HeartDepth is the z thickness of the heart
	HeartDepth = 1.2

	// GalaxyArms is the number of spiral arms
	GalaxyArms = 3

	// GalaxyWinding is the angular span (rad) of each arm from core to rim
	GalaxyWinding = 4.0 * 3.141592653589793

	// GalaxySpread is the Gaussian scatter as a fraction of the local radius
	GalaxySpread = 0.12

	// GalaxyThickness is the Gaussian disk half-thickness near the core
	GalaxyThickness = 0.35

	// NebulaLobes is the number of gaussian clouds
	NebulaLobes = 5

	// FireworksBursts is the number of burst origins
	FireworksBursts = 6

	// FireworksBurstRadius is the radius of each burst shell
	FireworksBurstRadius = 2.2

	// FillOffset is the magnitude of the offset applied to cyclically reused points
	FillOffset = 0.08
)
