package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut string
	}{
		{name: "release version", version: "1.2.3", wantOut: "sheetjson v1.2.3\n"},
		{name: "dev version", version: "dev", wantOut: "sheetjson vdev\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}
