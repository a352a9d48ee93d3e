package parameter

// Terminal rendering
const (
	// CameraDistance is the camera z distance from the cloud center
	CameraDistance = 16.0

	// FieldOfViewScale maps projected units to terminal rows
	FieldOfViewScale = 1.1

	// CellAspect is terminal cell height/width
	CellAspect = 2.0

	// StatusBarHeight is the number of rows reserved for the status line
	StatusBarHeight = 1
)
