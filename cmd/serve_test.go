package cmd

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
)

func TestServeCommandShutsDown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rootCmd := NewRootCmd()
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"serve", "--host", "127.0.0.1", "--port", strconv.Itoa(port), "--set", "sync.command=true"})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(stderr.String(), `runs "true"`) {
		t.Errorf("Expected startup log to name the command, got %q", stderr.String())
	}
}

func TestServeCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "port out of range",
			args:    []string{"serve", "--port", "70000"},
			wantErr: "server.port 70000 out of range",
		},
		{
			name:    "missing config file",
			args:    []string{"serve", "--config", "/nonexistent/syncd.yaml"},
			wantErr: "syncd.yaml",
		},
		{
			name:    "positional arguments",
			args:    []string{"serve", "extra"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
