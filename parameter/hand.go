package parameter

// Hand reduction
const (
	// OpenRatioClosed is the fingertip spread (relative to palm length) that maps to openness 0
	OpenRatioClosed = 0.5

	// OpenRatioOpen is the fingertip spread that maps to openness 1
	OpenRatioOpen = 1.3

	// ExtendRatio is how much farther than its PIP joint a fingertip must be from the wrist to count as extended
	ExtendRatio = 1.15

	// GestureStableFrames is how many consecutive frames a new gesture must persist before it is published
	GestureStableFrames = 3

	// HandSmoothing is the EMA weight of the newest frame for openness and position
	HandSmoothing = 0.5
)
