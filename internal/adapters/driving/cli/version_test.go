package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{version: "1.4.0", want: "sommelier version 1.4.0\n"},
		{version: "dev", want: "sommelier version dev\n"},
	}

	originalVersion := version
	defer func() { version = originalVersion }()

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			SetVersion(tt.version)

			out, err := execute([]string{"version"}, "")

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
