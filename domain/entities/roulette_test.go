package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pocket(t *testing.T, label string) RoulettePocket {
	t.Helper()
	for _, p := range RouletteWheel {
		if p.Label == label {
			return p
		}
	}
	t.Fatalf("pocket %q not on wheel", label)
	return RoulettePocket{}
}

func TestRouletteWheel(t *testing.T) {
	t.Parallel()

	require.Len(t, RouletteWheel, 38)

	reds, blacks, greens := 0, 0, 0
	for _, p := range RouletteWheel {
		switch p.Color {
		case RouletteColorRed:
			reds++
		case RouletteColorBlack:
			blacks++
		case RouletteColorGreen:
			greens++
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, 18, blacks)
	assert.Equal(t, 2, greens)
	assert.Equal(t, RouletteColorBlack, pocket(t, "17").Color)
	assert.Equal(t, RouletteColorRed, pocket(t, "19").Color)
}

func TestParseRouletteTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		kind    RouletteTargetKind
		value   string
		wantErr bool
	}{
		{raw: "red", kind: RouletteTargetColor, value: "red"},
		{raw: " Black ", kind: RouletteTargetColor, value: "black"},
		{raw: "ODD", kind: RouletteTargetParity, value: "odd"},
		{raw: "even", kind: RouletteTargetParity, value: "even"},
		{raw: "0", kind: RouletteTargetNumber, value: "0"},
		{raw: "00", kind: RouletteTargetNumber, value: "00"},
		{raw: "36", kind: RouletteTargetNumber, value: "36"},
		{raw: "37", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "07", wantErr: true},
		{raw: "green", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			target, err := ParseRouletteTarget(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, target.Kind)
			assert.Equal(t, tt.value, target.Value)
		})
	}
}

func TestRouletteTarget_Matches(t *testing.T) {
	t.Parallel()

	red, _ := ParseRouletteTarget("red")
	black, _ := ParseRouletteTarget("black")
	even, _ := ParseRouletteTarget("even")
	odd, _ := ParseRouletteTarget("odd")
	seventeen, _ := ParseRouletteTarget("17")
	zero, _ := ParseRouletteTarget("0")
	doubleZero, _ := ParseRouletteTarget("00")

	assert.False(t, red.Matches(pocket(t, "17")))
	assert.True(t, black.Matches(pocket(t, "17")))
	assert.True(t, odd.Matches(pocket(t, "17")))
	assert.True(t, seventeen.Matches(pocket(t, "17")))
	assert.True(t, even.Matches(pocket(t, "36")))

	for _, label := range []string{"0", "00"} {
		p := pocket(t, label)
		assert.False(t, red.Matches(p), label)
		assert.False(t, black.Matches(p), label)
		assert.False(t, even.Matches(p), label)
		assert.False(t, odd.Matches(p), label)
	}
	assert.True(t, zero.Matches(pocket(t, "0")))
	assert.False(t, zero.Matches(pocket(t, "00")))
	assert.True(t, doubleZero.Matches(pocket(t, "00")))
}

func TestRouletteTarget_Multiplier(t *testing.T) {
	t.Parallel()

	red, _ := ParseRouletteTarget("red")
	odd, _ := ParseRouletteTarget("odd")
	number, _ := ParseRouletteTarget("17")

	assert.Equal(t, int64(2), red.Multiplier())
	assert.Equal(t, int64(2), odd.Multiplier())
	assert.Equal(t, int64(35), number.Multiplier())
}
