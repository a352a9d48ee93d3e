package hand

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/lixenwraith/particle-core/parameter"
)

// syntheticHand builds a 21-point hand with the wrist at the bottom and fingers pointing up
// ext lists thumb, index, middle, ring, pinky; dx shifts the whole hand in image x
func syntheticHand(ext [5]bool, dx float64) []Landmark {
	lm := make([]Landmark, LandmarkCount)
	set := func(i int, x, y float64) { lm[i] = Landmark{X: x + dx, Y: y} }

	set(Wrist, 0.5, 0.8)

	set(1, 0.42, 0.74)
	set(2, 0.37, 0.68)
	set(ThumbIP, 0.33, 0.63)
	if ext[0] {
		set(ThumbTip, 0.27, 0.56)
	} else {
		set(ThumbTip, 0.46, 0.66)
	}

	mcps := [4][2]float64{{0.45, 0.6}, {0.5, 0.58}, {0.55, 0.6}, {0.6, 0.62}}
	for f, mcp := range mcps {
		base := IndexMCP + f*4
		set(base, mcp[0], mcp[1])
		if ext[f+1] {
			set(base+1, mcp[0], mcp[1]-0.09)
			set(base+2, mcp[0], mcp[1]-0.15)
			set(base+3, mcp[0], mcp[1]-0.20)
		} else {
			set(base+1, mcp[0], mcp[1]-0.05)
			set(base+2, mcp[0], mcp[1]-0.01)
			set(base+3, mcp[0], mcp[1]+0.03)
		}
	}
	return lm
}

var (
	openPalm  = [5]bool{true, true, true, true, true}
	fist      = [5]bool{}
	victory   = [5]bool{false, true, true, false, false}
	pointOnly = [5]bool{false, true, false, false, false}
)

func TestMeasureClassifiesGestures(t *testing.T) {
	tests := []struct {
		name string
		ext  [5]bool
		want Gesture
	}{
		{"open palm", openPalm, GestureOpenPalm},
		{"closed fist", fist, GestureClosedFist},
		{"victory", victory, GestureVictory},
		{"victory with thumb", [5]bool{true, true, true, false, false}, GestureVictory},
		{"pointing", pointOnly, GestureNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose, ok := Measure(syntheticHand(tt.ext, 0))
			if !ok {
				t.Fatal("hand rejected")
			}
			if pose.Extended != tt.ext {
				t.Errorf("extended = %v, want %v", pose.Extended, tt.ext)
			}
			if pose.Gesture != tt.want {
				t.Errorf("gesture = %s, want %s", pose.Gesture, tt.want)
			}
		})
	}
}

func TestMeasureOpenness(t *testing.T) {
	open, _ := Measure(syntheticHand(openPalm, 0))
	closed, _ := Measure(syntheticHand(fist, 0))
	if open.Openness < 0.6 || open.Openness > 1 {
		t.Errorf("open hand openness = %f", open.Openness)
	}
	if closed.Openness > 0.1 || closed.Openness < 0 {
		t.Errorf("fist openness = %f", closed.Openness)
	}
}

func TestMeasureRejectsShortOrDegenerate(t *testing.T) {
	if _, ok := Measure(make([]Landmark, 5)); ok {
		t.Error("short landmark set accepted")
	}
	if _, ok := Measure(make([]Landmark, LandmarkCount)); ok {
		t.Error("degenerate hand with zero palm accepted")
	}
}

func TestMeasureRejectsNonFinite(t *testing.T) {
	for _, idx := range []int{Wrist, ThumbTip, IndexMCP, LandmarkCount - 1} {
		lm := syntheticHand(openPalm, 0)
		lm[idx].X = math.NaN()
		if _, ok := Measure(lm); ok {
			t.Errorf("NaN at landmark %d accepted", idx)
		}
		lm = syntheticHand(openPalm, 0)
		lm[idx].Y = math.Inf(-1)
		if _, ok := Measure(lm); ok {
			t.Errorf("-Inf at landmark %d accepted", idx)
		}
	}
}

func TestReducerSkipsNonFiniteFrame(t *testing.T) {
	r := NewReducer(nil)
	good := r.Reduce([][]Landmark{syntheticHand(openPalm, 0)})

	bad := syntheticHand(openPalm, 0)
	bad[ThumbTip].X = math.NaN()
	if d := r.Reduce([][]Landmark{bad}); d != Idle {
		t.Fatalf("non-finite frame = %+v, want Idle", d)
	}

	d := r.Reduce([][]Landmark{syntheticHand(openPalm, 0)})
	if math.IsNaN(d.Factor) || math.IsNaN(d.X) || math.IsNaN(d.Y) {
		t.Fatalf("smoothed state poisoned: %+v", d)
	}
	if d.Factor != good.Factor || d.X != good.X || d.Y != good.Y {
		t.Errorf("reacquired %+v, want %+v", d, good)
	}
}

func TestReducerMirroredX(t *testing.T) {
	// Selfie camera: the user's right is image left
	r := NewReducer(nil)
	center := r.Reduce([][]Landmark{syntheticHand(openPalm, 0)})
	r = NewReducer(nil)
	right := r.Reduce([][]Landmark{syntheticHand(openPalm, -0.2)})
	if right.X <= center.X {
		t.Errorf("mirrored: moving right gave x %f -> %f", center.X, right.X)
	}

	r = &Reducer{}
	center = r.Reduce([][]Landmark{syntheticHand(openPalm, 0)})
	r = &Reducer{}
	right = r.Reduce([][]Landmark{syntheticHand(openPalm, 0.2)})
	if right.X <= center.X {
		t.Errorf("unmirrored: moving right gave x %f -> %f", center.X, right.X)
	}
	if right.X < -1 || right.X > 1 || right.Y < -1 || right.Y > 1 {
		t.Errorf("position out of range: %+v", right)
	}
}

func TestReducerGestureHysteresis(t *testing.T) {
	r := NewReducer(nil)
	frame := func(ext [5]bool) Data { return r.Reduce([][]Landmark{syntheticHand(ext, 0)}) }

	for i := 0; i < parameter.GestureStableFrames-1; i++ {
		if d := frame(openPalm); d.Gesture != GestureNone {
			t.Fatalf("frame %d published %s before stabilizing", i, d.Gesture)
		}
	}
	if d := frame(openPalm); d.Gesture != GestureOpenPalm {
		t.Fatalf("stable gesture not published, got %s", d.Gesture)
	}

	// Single noisy frame does not flip the output
	if d := frame(victory); d.Gesture != GestureOpenPalm {
		t.Errorf("one noisy frame flipped gesture to %s", d.Gesture)
	}
	if d := frame(openPalm); d.Gesture != GestureOpenPalm {
		t.Errorf("gesture lost after noise: %s", d.Gesture)
	}

	var d Data
	for i := 0; i < parameter.GestureStableFrames; i++ {
		d = frame(victory)
	}
	if d.Gesture != GestureVictory {
		t.Errorf("sustained victory not published, got %s", d.Gesture)
	}
}

func TestReducerNoHandResets(t *testing.T) {
	out := &Cell{}
	r := NewReducer(out)
	for i := 0; i < parameter.GestureStableFrames; i++ {
		r.Publish([][]Landmark{syntheticHand(fist, 0)})
	}
	if got := out.Load(); !got.IsTracking || got.Gesture != GestureClosedFist {
		t.Fatalf("tracking frame = %+v", got)
	}

	r.Publish(nil)
	if got := out.Load(); got != Idle {
		t.Errorf("no-hand frame = %+v, want Idle", got)
	}

	// Tracking restarts without smoothing toward stale values
	d := r.Publish([][]Landmark{syntheticHand(openPalm, 0)})
	pose, _ := Measure(syntheticHand(openPalm, 0))
	if d.Factor != pose.Openness {
		t.Errorf("factor after reacquire = %f, want %f", d.Factor, pose.Openness)
	}
	if d.Gesture != GestureNone {
		t.Errorf("gesture after reacquire = %s, want None until stable", d.Gesture)
	}
}

func TestCellZeroValueAndConcurrentWrites(t *testing.T) {
	var c Cell
	if c.Load() != Idle {
		t.Fatal("zero cell must read Idle")
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				v := float64(w)
				c.Store(Data{Factor: v, X: v, Y: v, IsTracking: true})
			}
		}(w)
	}
	for i := 0; i < 1000; i++ {
		d := c.Load()
		if d.Factor != d.X || d.X != d.Y {
			t.Fatalf("torn read %+v", d)
		}
	}
	wg.Wait()
}

func TestDecodeFrameForms(t *testing.T) {
	hand := syntheticHand(openPalm, 0)
	arr := make([][]float64, len(hand))
	objs := make([]map[string]float64, len(hand))
	for i, p := range hand {
		arr[i] = []float64{p.X, p.Y, p.Z}
		objs[i] = map[string]float64{"x": p.X, "y": p.Y, "z": p.Z}
	}
	rawArr, _ := json.Marshal([][][]float64{arr})
	rawObj, _ := json.Marshal(map[string]any{"landmarks": []any{objs}})

	for name, line := range map[string]string{"arrays": string(rawArr), "objects": string(rawObj)} {
		hands, err := DecodeFrame(line)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(hands) != 1 || len(hands[0]) != LandmarkCount {
			t.Fatalf("%s: decoded %d hands", name, len(hands))
		}
		if hands[0][IndexTip] != hand[IndexTip] {
			t.Errorf("%s: index tip %+v, want %+v", name, hands[0][IndexTip], hand[IndexTip])
		}
	}

	if hands, err := DecodeFrame("[]"); err != nil || len(hands) != 0 {
		t.Errorf("empty frame: %v %v", hands, err)
	}
	for _, bad := range []string{"{", `"x"`, `[[1]]`, `[[[1]]]`, `{"landmarks": 3}`} {
		if _, err := DecodeFrame(bad); err == nil {
			t.Errorf("DecodeFrame(%q) accepted", bad)
		}
	}
}

func TestFeedSkipsBadLines(t *testing.T) {
	hand := syntheticHand(victory, 0)
	arr := make([][]float64, len(hand))
	for i, p := range hand {
		arr[i] = []float64{p.X, p.Y}
	}
	good, _ := json.Marshal([][][]float64{arr})

	lines := []string{"garbage", ""}
	for i := 0; i < parameter.GestureStableFrames; i++ {
		lines = append(lines, string(good))
	}

	out := &Cell{}
	var seen int
	f := &Feed{Reducer: NewReducer(out), OnData: func(Data) { seen++ }}
	if err := f.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		t.Fatal(err)
	}
	if seen != parameter.GestureStableFrames {
		t.Errorf("published %d frames, want %d", seen, parameter.GestureStableFrames)
	}
	if got := out.Load(); got.Gesture != GestureVictory {
		t.Errorf("final gesture = %s", got.Gesture)
	}
}

func TestParseGesture(t *testing.T) {
	for _, g := range []Gesture{GestureNone, GestureVictory, GestureOpenPalm, GestureClosedFist} {
		got, err := ParseGesture(strings.ToLower(g.String()))
		if err != nil || got != g {
			t.Errorf("ParseGesture(%q) = %v, %v", g.String(), got, err)
		}
	}
	if _, err := ParseGesture("thumbs_up"); err == nil {
		t.Error("expected error")
	}
}
