package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// newDotCommandHarness returns a command whose output streams are captured.
func newDotCommandHarness() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "query"}
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func TestHandleDotCommandQuitSignal(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantQuit bool
	}{
		{name: "quit", line: ".quit", wantQuit: true},
		{name: "exit", line: ".exit", wantQuit: true},
		{name: "uppercase quit", line: ".QUIT", wantQuit: true},
		{name: "mixed case exit", line: ".Exit", wantQuit: true},
		{name: "help does not quit", line: ".help", wantQuit: false},
		{name: "unknown does not quit", line: ".bogus", wantQuit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, _ := newDotCommandHarness()

			handled, quit := handleDotCommand(context.Background(), cmd, nil, nil, tt.line)
			assert.True(t, handled)
			assert.Equal(t, tt.wantQuit, quit)
		})
	}
}

func TestHandleDotCommandHelp(t *testing.T) {
	cmd, out, _ := newDotCommandHarness()

	handled, quit := handleDotCommand(context.Background(), cmd, nil, nil, ".help")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Contains(t, out.String(), ".keywords")
	assert.Contains(t, out.String(), ".quit / .exit")
}

func TestHandleDotCommandClearWritesToCommandOutput(t *testing.T) {
	cmd, out, _ := newDotCommandHarness()

	handled, quit := handleDotCommand(context.Background(), cmd, nil, nil, ".clear")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Equal(t, "\033[H\033[2J", out.String())
}

func TestHandleDotCommandUnknownReportsToStderr(t *testing.T) {
	cmd, out, errOut := newDotCommandHarness()

	handled, quit := handleDotCommand(context.Background(), cmd, nil, nil, ".bogus")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")
}
