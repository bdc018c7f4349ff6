package entities

import (
	"strconv"
	"strings"
)

// RouletteColor is the colour of a wheel pocket
type RouletteColor string

const (
	RouletteColorRed   RouletteColor = "red"
	RouletteColorBlack RouletteColor = "black"
	RouletteColorGreen RouletteColor = "green"
)

const (
	RouletteColorMultiplier  int64 = 2
	RouletteParityMultiplier int64 = 2
	RouletteNumberMultiplier int64 = 35
)

// RoulettePocket is one of the 38 pockets of an American wheel. Number is -1
// for the double zero.
type RoulettePocket struct {
	Label  string
	Number int
	Color  RouletteColor
}

// IsZero reports whether the pocket is 0 or 00
func (p RoulettePocket) IsZero() bool {
	return p.Number <= 0
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// RouletteWheel lists the pockets in draw order: 0, 00, then 1 to 36
var RouletteWheel = buildWheel()

func buildWheel() []RoulettePocket {
	wheel := []RoulettePocket{
		{Label: "0", Number: 0, Color: RouletteColorGreen},
		{Label: "00", Number: -1, Color: RouletteColorGreen},
	}
	for n := 1; n <= 36; n++ {
		color := RouletteColorBlack
		if redNumbers[n] {
			color = RouletteColorRed
		}
		wheel = append(wheel, RoulettePocket{Label: strconv.Itoa(n), Number: n, Color: color})
	}
	return wheel
}

// RouletteTargetKind groups targets by how they are matched and paid
type RouletteTargetKind string

const (
	RouletteTargetColor  RouletteTargetKind = "color"
	RouletteTargetParity RouletteTargetKind = "parity"
	RouletteTargetNumber RouletteTargetKind = "number"
)

// RouletteTarget is a validated roulette bet target
type RouletteTarget struct {
	Kind  RouletteTargetKind
	Value string
}

// ParseRouletteTarget accepts red, black, odd, even, 0 to 36 and 00
func ParseRouletteTarget(raw string) (RouletteTarget, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "red", "black":
		return RouletteTarget{Kind: RouletteTargetColor, Value: s}, nil
	case "odd", "even":
		return RouletteTarget{Kind: RouletteTargetParity, Value: s}, nil
	case "00":
		return RouletteTarget{Kind: RouletteTargetNumber, Value: s}, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 36 || strconv.Itoa(n) != s {
		return RouletteTarget{}, ErrInvalidTarget
	}
	return RouletteTarget{Kind: RouletteTargetNumber, Value: s}, nil
}

// Matches reports whether the pocket wins for this target. Zero pockets only
// win a bet on their own number.
func (t RouletteTarget) Matches(p RoulettePocket) bool {
	switch t.Kind {
	case RouletteTargetColor:
		return string(p.Color) == t.Value
	case RouletteTargetParity:
		if p.IsZero() {
			return false
		}
		if t.Value == "even" {
			return p.Number%2 == 0
		}
		return p.Number%2 == 1
	case RouletteTargetNumber:
		return p.Label == t.Value
	default:
		return false
	}
}

// Multiplier is the payout multiple credited on a win
func (t RouletteTarget) Multiplier() int64 {
	switch t.Kind {
	case RouletteTargetNumber:
		return RouletteNumberMultiplier
	case RouletteTargetParity:
		return RouletteParityMultiplier
	default:
		return RouletteColorMultiplier
	}
}

func (t RouletteTarget) String() string {
	return t.Value
}
