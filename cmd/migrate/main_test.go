package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_commandLine_run(t *testing.T) {
	var gotCmd string
	var gotArgs []string
	cli := &commandLine{migrate: func(_ context.Context, _ *sql.DB, command string, args ...string) error {
		gotCmd, gotArgs = command, args
		return nil
	}}

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCmd  string
		wantArgs []string
	}{
		{name: "no command", args: []string{"migrate"}, wantErr: errHelp},
		{name: "up", args: []string{"migrate", "up"}, wantCmd: "up", wantArgs: []string{}},
		{name: "status", args: []string{"migrate", "status"}, wantCmd: "status", wantArgs: []string{}},
		{name: "redo", args: []string{"migrate", "redo"}, wantCmd: "redo", wantArgs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCmd, gotArgs = "", nil
			err := cli.run(context.Background(), tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, gotCmd)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
