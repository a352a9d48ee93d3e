package parameter

import "time"

// Generative service defaults
const (
	// AITimeout bounds a single generation request including retries
	AITimeout = 30 * time.Second

	// AIMaxPoints bounds the number of coordinates requested from and accepted by the service
	AIMaxPoints = 2000

	// AIRetries is the number of retries after the first attempt
	AIRetries = 2

	// AIErrorBodyLimit is how much of a failed response body is kept in the error
	AIErrorBodyLimit = 4096

	// AIFallbackShape names the built-in shape installed when generation fails
	AIFallbackShape = "Sphere"
)
