package hand

import (
	"math"

	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/vmath"
)

// Landmark is one detector point in image space, x/y in [0,1], z relative depth
type Landmark = vmath.Vec3F

// LandmarkCount is the size of the hand model
const LandmarkCount = 21

// Landmark indices of the 21-point hand model
const (
	Wrist     = 0
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyTip  = 20
)

var (
	palmIndices = [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	tipIndices  = [...]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}
	// finger tip/PIP pairs, index through pinky
	fingerJoints = [4][2]int{{IndexTip, IndexPIP}, {MiddleTip, MiddlePIP}, {RingTip, RingPIP}, {PinkyTip, PinkyPIP}}
)

// Pose is the unsmoothed measurement of one hand
type Pose struct {
	Openness float64
	CenterX  float64 // image space
	CenterY  float64
	Extended [5]bool // thumb, index, middle, ring, pinky
	Gesture  Gesture
}

// Measure computes openness, palm center and finger extension of a 21-point hand
// Returns false when the landmark set is unusable
func Measure(lm []Landmark) (Pose, bool) {
	if len(lm) < LandmarkCount {
		return Pose{}, false
	}
	for _, l := range lm[:LandmarkCount] {
		if !vmath.V3FFinite(l) {
			return Pose{}, false
		}
	}

	var center vmath.Vec3F
	for _, idx := range palmIndices {
		center = vmath.V3FAdd(center, planar(lm[idx]))
	}
	center = vmath.V3FScale(center, 1.0/float64(len(palmIndices)))

	palm := planarDist(lm[Wrist], lm[MiddleMCP])
	if palm == 0 || math.IsNaN(palm) {
		return Pose{}, false
	}

	var spread float64
	for _, idx := range tipIndices {
		spread += planarDist(lm[idx], center)
	}
	spread /= float64(len(tipIndices)) * palm
	if math.IsNaN(spread) || math.IsInf(spread, 0) {
		return Pose{}, false
	}

	p := Pose{
		Openness: vmath.Clamp((spread-parameter.OpenRatioClosed)/(parameter.OpenRatioOpen-parameter.OpenRatioClosed), 0, 1),
		CenterX:  center.X,
		CenterY:  center.Y,
	}

	// Thumb folds sideways, measured against the pinky base instead of the wrist
	p.Extended[0] = planarDist(lm[ThumbTip], lm[PinkyMCP]) > parameter.ExtendRatio*planarDist(lm[ThumbIP], lm[PinkyMCP])
	for f, joints := range fingerJoints {
		p.Extended[f+1] = planarDist(lm[joints[0]], lm[Wrist]) > parameter.ExtendRatio*planarDist(lm[joints[1]], lm[Wrist])
	}
	p.Gesture = classify(p.Extended)
	return p, true
}

func classify(ext [5]bool) Gesture {
	index, middle, ring, pinky := ext[1], ext[2], ext[3], ext[4]
	switch {
	case ext[0] && index && middle && ring && pinky:
		return GestureOpenPalm
	case index && middle && !ring && !pinky:
		return GestureVictory
	case !index && !middle && !ring && !pinky:
		return GestureClosedFist
	default:
		return GestureNone
	}
}

func planar(v vmath.Vec3F) vmath.Vec3F {
	return vmath.Vec3F{X: v.X, Y: v.Y}
}

func planarDist(a, b vmath.Vec3F) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Reducer turns per-frame detections into Data with smoothing and gesture hysteresis
// Not safe for concurrent use; owned by the detector goroutine
type Reducer struct {
	// Mirror flips x so a selfie camera reports moving right as increasing x
	Mirror bool
	// Out receives every reduced frame when set
	Out *Cell

	tracking  bool
	factor    float64
	x, y      float64
	published Gesture
	candidate Gesture
	streak    int
}

// NewReducer returns a mirrored reducer publishing into out
func NewReducer(out *Cell) *Reducer {
	return &Reducer{Mirror: true, Out: out}
}

// Reduce consumes one detector frame, the first usable hand steers
func (r *Reducer) Reduce(hands [][]Landmark) Data {
	var (
		pose Pose
		ok   bool
	)
	for _, lm := range hands {
		if pose, ok = Measure(lm); ok {
			break
		}
	}
	if !ok {
		r.reset()
		return Idle
	}

	x := vmath.Clamp(2*pose.CenterX-1, -1, 1)
	if r.Mirror {
		x = -x
	}
	y := vmath.Clamp(2*pose.CenterY-1, -1, 1)

	if !r.tracking {
		r.factor, r.x, r.y = pose.Openness, x, y
		r.tracking = true
	} else {
		a := parameter.HandSmoothing
		r.factor += (pose.Openness - r.factor) * a
		r.x += (x - r.x) * a
		r.y += (y - r.y) * a
	}
	r.debounce(pose.Gesture)

	return Data{
		Factor:     r.factor,
		X:          r.x,
		Y:          r.y,
		IsTracking: true,
		Gesture:    r.published,
	}
}

// Publish reduces a frame and stores the result in Out
func (r *Reducer) Publish(hands [][]Landmark) Data {
	d := r.Reduce(hands)
	if r.Out != nil {
		r.Out.Store(d)
	}
	return d
}

// debounce switches the published gesture only after GestureStableFrames consecutive agreeing frames
func (r *Reducer) debounce(raw Gesture) {
	if raw == r.published {
		r.candidate, r.streak = raw, 0
		return
	}
	if raw != r.candidate {
		r.candidate, r.streak = raw, 0
	}
	r.streak++
	if r.streak >= parameter.GestureStableFrames {
		r.published, r.streak = raw, 0
	}
}

func (r *Reducer) reset() {
	r.tracking = false
	r.published, r.candidate, r.streak = GestureNone, GestureNone, 0
}
