package genai

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/lixenwraith/particle-core/vmath"
)

// ExtractPoints reads coordinates from the response shapes the service may return:
// a "points" field, a bare array, or a model text reply holding a JSON array
func ExtractPoints(body []byte, maxPoints int) ([]vmath.Vec3F, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(body)

	var list gjson.Result
	switch {
	case root.Get("points").IsArray():
		list = root.Get("points")
	case root.IsArray():
		list = root
	default:
		text := root.Get("candidates.0.content.parts.0.text").String()
		if text == "" {
			text = root.Get("output_text").String()
		}
		if text == "" {
			return nil, fmt.Errorf("%w: no points", ErrMalformedResponse)
		}
		text = stripFence(text)
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("%w: text payload is not json", ErrMalformedResponse)
		}
		inner := gjson.Parse(text)
		if inner.Get("points").IsArray() {
			inner = inner.Get("points")
		}
		if !inner.IsArray() {
			return nil, fmt.Errorf("%w: text payload is not an array", ErrMalformedResponse)
		}
		list = inner
	}

	points := make([]vmath.Vec3F, 0, min(len(list.Array()), maxPoints))
	list.ForEach(func(_, p gjson.Result) bool {
		if len(points) >= maxPoints {
			return false
		}
		if v, ok := decodePoint(p); ok {
			points = append(points, v)
		}
		return true
	})
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no usable points", ErrMalformedResponse)
	}
	return points, nil
}

func decodePoint(p gjson.Result) (vmath.Vec3F, bool) {
	if p.IsArray() {
		c := p.Array()
		if len(c) != 3 {
			return vmath.Vec3F{}, false
		}
		for _, v := range c {
			if v.Type != gjson.Number {
				return vmath.Vec3F{}, false
			}
		}
		return vmath.Vec3F{X: c[0].Float(), Y: c[1].Float(), Z: c[2].Float()}, true
	}
	if p.IsObject() {
		x, y, z := p.Get("x"), p.Get("y"), p.Get("z")
		if x.Type != gjson.Number || y.Type != gjson.Number || z.Type != gjson.Number {
			return vmath.Vec3F{}, false
		}
		return vmath.Vec3F{X: x.Float(), Y: y.Float(), Z: z.Float()}, true
	}
	return vmath.Vec3F{}, false
}

// stripFence removes a surrounding ``` or ```json block
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
