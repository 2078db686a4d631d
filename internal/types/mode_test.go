package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"TRAINING", ModeTraining},
		{"training", ModeTraining},
		{" Training ", ModeTraining},
		{"LIVE", ModeLive},
		{"live", ModeLive},
		{"TRADING", ModeLive}, // legacy spelling
		{"trading", ModeLive},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "paper", "LIV E"} {
		_, err := ParseMode(in)
		assert.Error(t, err, in)
	}
}
