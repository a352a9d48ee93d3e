package event

import (
	"github.com/lixenwraith/particle-core/shape"
)

// TargetsPayload is the outcome of one generation request
type TargetsPayload struct {
	Prompt  string
	Count   int
	Targets *shape.TargetSet // nil on failure
	Err     error            // nil on success
}
