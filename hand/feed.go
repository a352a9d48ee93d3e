package hand

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/lixenwraith/particle-core/vmath"
)

// maxFrameLine bounds a single JSON frame; 21 points x a few hands is far below this
const maxFrameLine = 1 << 20

var ErrMalformedFrame = errors.New("malformed landmark frame")

// DecodeFrame parses one detector frame
// Accepted forms: [[[x,y,z],...],...], {"landmarks":[...]}, points as [x,y,z] or {"x","y","z"}
// An empty hand list is a valid frame with no hand
func DecodeFrame(line string) ([][]Landmark, error) {
	if !gjson.Valid(line) {
		return nil, ErrMalformedFrame
	}
	root := gjson.Parse(line)
	if root.IsObject() {
		root = root.Get("landmarks")
	}
	if !root.IsArray() {
		return nil, ErrMalformedFrame
	}

	var hands [][]Landmark
	for _, h := range root.Array() {
		if !h.IsArray() {
			return nil, ErrMalformedFrame
		}
		pts := h.Array()
		lm := make([]Landmark, 0, len(pts))
		for _, p := range pts {
			v, ok := decodePoint(p)
			if !ok {
				return nil, ErrMalformedFrame
			}
			lm = append(lm, v)
		}
		hands = append(hands, lm)
	}
	return hands, nil
}

func decodePoint(p gjson.Result) (vmath.Vec3F, bool) {
	switch {
	case p.IsArray():
		c := p.Array()
		if len(c) < 2 {
			return vmath.Vec3F{}, false
		}
		v := vmath.Vec3F{X: c[0].Float(), Y: c[1].Float()}
		if len(c) > 2 {
			v.Z = c[2].Float()
		}
		return v, true
	case p.IsObject():
		x, y := p.Get("x"), p.Get("y")
		if !x.Exists() || !y.Exists() {
			return vmath.Vec3F{}, false
		}
		return vmath.Vec3F{X: x.Float(), Y: y.Float(), Z: p.Get("z").Float()}, true
	default:
		return vmath.Vec3F{}, false
	}
}

// Feed publishes JSON-lines detector frames through a Reducer
type Feed struct {
	Reducer *Reducer
	// OnData is called after each published frame when set
	OnData func(Data)
}

// Run reads frames until EOF or ctx is done
// Malformed lines are logged and skipped, a single bad frame never stops the feed
func (f *Feed) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameLine)

	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		hands, err := DecodeFrame(text)
		if err != nil {
			log.Printf("[hand] feed line %d: %v", line, err)
			continue
		}
		d := f.Reducer.Publish(hands)
		if f.OnData != nil {
			f.OnData(d)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read landmark feed: %w", err)
	}
	return nil
}
