package main

import (
	"testing"

	"github.com/prisonproc/procurement/pkg/interfaces/cli/commands"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		wantNil bool
		wantErr bool
	}{
		{"list", "list", []string{"-page", "prisons", "-filter", "region=flanders", "-filter", "blocked=false"}, false, false},
		{"stock", "stock", []string{"-article", "17", "-horizon", "7"}, false, false},
		{"generate", "generate", []string{"-output", "out", "-format", "xlsx"}, false, false},
		{"validate", "validate", []string{"-scenario", "dir"}, false, false},
		{"help", "help", nil, true, false},
		{"unknown_command", "plan", nil, true, true},
		{"unknown_flag", "list", []string{"-colour", "red"}, true, true},
		{"bad_horizon", "stock", []string{"-horizon", "soon"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parse(tt.command, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if (cmd == nil) != tt.wantNil {
				t.Errorf("Expected nil command=%v, got %v", tt.wantNil, cmd)
			}
		})
	}
}

func TestParse_ListFlags(t *testing.T) {
	cmd, err := parse("list", []string{"-page", "users", "-mode", "local", "-prison", "gent", "-filter", "auth_type=o365"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, ok := cmd.(*commands.ListCommand); !ok {
		t.Errorf("Expected *commands.ListCommand, got %T", cmd)
	}
}
