package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestApplyColorMode(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	tests := []struct {
		name      string
		detected  bool // NoColor as set by terminal detection
		useColors bool
		want      bool
	}{
		{"piped output stays plain", true, true, true},
		{"terminal keeps colors", false, true, false},
		{"disabled on terminal", false, false, true},
		{"disabled when piped", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = tt.detected
			applyColorMode(tt.useColors)
			assert.Equal(t, tt.want, color.NoColor)
		})
	}
}
