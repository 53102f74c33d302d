package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthConversions(t *testing.T) {
	assert.InDelta(t, 25.4, In(1).Millimeters(), 1e-9)
	assert.InDelta(t, 1, MM(25.4).Inches(), 1e-9)
	assert.InDelta(t, 1, Length{Value: 2.54, Unit: UnitCM}.Inches(), 1e-9)
	assert.InDelta(t, 72, In(1).Points(), 1e-9)
	assert.InDelta(t, 0.5, Length{Value: 36, Unit: UnitPT}.Inches(), 1e-9)
	assert.InDelta(t, 210*PTPerInch/MMPerInch, MM(210).Points(), 1e-9)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
	}{
		{"8.5in", In(8.5)},
		{"210mm", MM(210)},
		{" 2.5 CM ", Length{Value: 2.5, Unit: UnitCM}},
		{"36pt", Length{Value: 36, Unit: UnitPT}},
		{"11", In(11)},
		{"0", In(0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in, UnitIN)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLengthRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "mm", "abc", "1.2.3in", "nan", "infin", "-inf mm", "+Inf", "NaNpt"} {
		_, err := ParseLength(in, UnitIN)
		assert.Error(t, err, in)
	}
}

func TestLengthString(t *testing.T) {
	assert.Equal(t, "8.5in", In(8.5).String())
	assert.Equal(t, "297mm", MM(297).String())
}
