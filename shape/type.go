package shape

import (
	"fmt"
	"strings"
)

// Type selects a coordinate-generation formula
type Type uint8

const (
	Sphere Type = iota
	Cube
	Torus
	DNA
	Star
	Galaxy
	Nebula
	Heart
	Fireworks
	AIGenerated
)

var typeNames = [...]string{
	Sphere:      "Sphere",
	Cube:        "Cube",
	Torus:       "Torus",
	DNA:         "DNA Helix",
	Star:        "Star",
	Galaxy:      "Galaxy",
	Nebula:      "Nebula",
	Heart:       "Heart",
	Fireworks:   "Fireworks",
	AIGenerated: "AI Custom",
}

// Builtins lists the formula-backed shapes in menu order
var Builtins = []Type{Star, Galaxy, Nebula, Heart, Fireworks, Sphere, Cube, DNA, Torus}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Valid reports whether t is a known shape
func (t Type) Valid() bool {
	return int(t) < len(typeNames)
}

// IsBuiltin reports whether t has a local formula
func (t Type) IsBuiltin() bool {
	return t.Valid() && t != AIGenerated
}

// ParseType resolves a display name or a short alias, case-insensitive
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "dna", "helix":
		return DNA, nil
	case "ai", "custom":
		return AIGenerated, nil
	}
	for i, name := range typeNames {
		if strings.ToLower(name) == key {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}
