package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitKV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{name: "simple pair", input: "sync.dir=/srv/ztkeco", wantKey: "sync.dir", wantValue: "/srv/ztkeco"},
		{name: "empty value", input: "empty=", wantKey: "empty", wantValue: ""},
		{name: "value with equals sign", input: "sync.env=MODE=full", wantKey: "sync.env", wantValue: "MODE=full"},
		{name: "spaces around key and value", input: " key = value ", wantKey: "key", wantValue: "value"},
		{name: "missing equals sign", input: "invalid", wantErr: true},
		{name: "empty key", input: "=value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := splitKV(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitKV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if key != tt.wantKey || value != tt.wantValue {
				t.Errorf("splitKV() = %q, %q; want %q, %q", key, value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func TestInferValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"4000", 4000},
		{"-10", -10},
		{"0", 0},
		{"95.5", 95.5},
		{"true", true},
		{"false", false},
		{"0042", "0042"},
		{"123abc", "123abc"},
		{"run get-all-transactions", "run get-all-transactions"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := inferValue(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("inferValue(%q) = %v (type: %T), want %v (type: %T)", tt.input, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON(`{"server":{"port":4100}}`)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	want := map[string]any{"server": map[string]any{"port": float64(4100)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseJSON() = %v, want %v", got, want)
	}

	if _, err := ParseJSON(`{invalid}`); err == nil {
		t.Error("ParseJSON() expected error for invalid JSON")
	}
	if _, err := ParseJSON(`[1,2]`); err == nil {
		t.Error("ParseJSON() expected error for non-object JSON")
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlFile := filepath.Join(tmpDir, "syncd.yaml")
	if err := os.WriteFile(yamlFile, []byte("server:\n  port: 4100\nsync:\n  args: [run, get-all-transactions]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ParseFile(yamlFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	want := map[string]any{
		"server": map[string]any{"port": 4100},
		"sync":   map[string]any{"args": []any{"run", "get-all-transactions"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFile() = %v, want %v", got, want)
	}

	jsonFile := filepath.Join(tmpDir, "syncd.json")
	if err := os.WriteFile(jsonFile, []byte(`{"sync": {"dir": "/srv/ztkeco"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = ParseFile(jsonFile)
	if err != nil {
		t.Fatalf("ParseFile() JSON error = %v", err)
	}
	if got["sync"].(map[string]any)["dir"] != "/srv/ztkeco" {
		t.Errorf("ParseFile() JSON = %v", got)
	}

	if _, err := ParseFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("ParseFile() expected error for missing file")
	}

	badFile := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badFile, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(badFile); err == nil {
		t.Error("ParseFile() expected error for invalid YAML")
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Run("no variables", func(t *testing.T) {
		got, err := ParseEnvWithPrefix("SYNCD_TEST_EMPTY")
		if err != nil || got != nil {
			t.Errorf("ParseEnvWithPrefix() = %v, %v; want nil, nil", got, err)
		}
	})

	t.Run("section variables", func(t *testing.T) {
		t.Setenv("SYNCDT_SERVER_PORT", "4100")
		t.Setenv("SYNCDT_WEBHOOK_RETRY_DELAY", "2s")
		t.Setenv("SYNCDT_UPLOAD_SECURE", "false")

		got, err := ParseEnvWithPrefix("SYNCDT")
		if err != nil {
			t.Fatalf("ParseEnvWithPrefix() error = %v", err)
		}
		want := map[string]any{
			"server":  map[string]any{"port": 4100},
			"webhook": map[string]any{"retry_delay": "2s"},
			"upload":  map[string]any{"secure": false},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ParseEnvWithPrefix() = %v, want %v", got, want)
		}
	})

	t.Run("string values are kept verbatim", func(t *testing.T) {
		t.Setenv("SYNCD_TEST_RAW_WEBHOOK_AUTH_TOKEN", "12345678901234567890")
		t.Setenv("SYNCD_TEST_RAW_SYNC_DIR", "1.50")

		got, err := ParseEnvWithPrefix("SYNCD_TEST_RAW")
		if err != nil {
			t.Fatalf("ParseEnvWithPrefix() error = %v", err)
		}
		want := map[string]any{
			"webhook": map[string]any{"auth_token": "12345678901234567890"},
			"sync":    map[string]any{"dir": "1.50"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ParseEnvWithPrefix() = %v, want %v", got, want)
		}
	})

	t.Run("JSON variable is overridden by section variables", func(t *testing.T) {
		t.Setenv("SYNCDJ", `{"server":{"host":"0.0.0.0","port":5000}}`)
		t.Setenv("SYNCDJ_SERVER_PORT", "4100")

		got, err := ParseEnvWithPrefix("SYNCDJ")
		if err != nil {
			t.Fatalf("ParseEnvWithPrefix() error = %v", err)
		}
		server := got["server"].(map[string]any)
		if server["host"] != "0.0.0.0" || server["port"] != 4100 {
			t.Errorf("ParseEnvWithPrefix() server = %v", server)
		}
	})

	t.Run("invalid JSON variable", func(t *testing.T) {
		t.Setenv("SYNCDX", `{oops`)
		if _, err := ParseEnvWithPrefix("SYNCDX"); err == nil {
			t.Error("ParseEnvWithPrefix() expected error for invalid JSON")
		}
	})
}

func TestParseSet(t *testing.T) {
	got, err := ParseSet([]string{"sync.dir=/srv/ztkeco", "webhook.retry_delay=500ms", "server_port=4100"})
	if err != nil {
		t.Fatalf("ParseSet() error = %v", err)
	}
	want := map[string]any{
		"sync":    map[string]any{"dir": "/srv/ztkeco"},
		"webhook": map[string]any{"retry_delay": "500ms"},
		"server":  map[string]any{"port": 4100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSet() = %v, want %v", got, want)
	}

	got, err = ParseSet([]string{
		"sync.dir=1.50",
		"webhook.auth_token=12345678901234567890",
		"webhook.retries=5",
		"upload.access_key=1e5",
		"upload.secure=false",
		"Webhook.Headers.X-Token=abc",
	})
	if err != nil {
		t.Fatalf("ParseSet() error = %v", err)
	}
	want = map[string]any{
		"sync": map[string]any{"dir": "1.50"},
		"webhook": map[string]any{
			"auth_token": "12345678901234567890",
			"retries":    5,
			"headers":    map[string]any{"X-Token": "abc"},
		},
		"upload": map[string]any{"access_key": "1e5", "secure": false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSet() = %v, want %v", got, want)
	}

	if got, err := ParseSet(nil); got != nil || err != nil {
		t.Errorf("ParseSet(nil) = %v, %v", got, err)
	}
	if _, err := ParseSet([]string{"novalue"}); err == nil {
		t.Error("ParseSet() expected error for missing '='")
	}
}

func TestMerge(t *testing.T) {
	base := map[string]any{
		"server": map[string]any{"host": "localhost", "port": 4000},
		"sync":   map[string]any{"command": "dotnet"},
	}
	override := map[string]any{
		"server": map[string]any{"port": 4100},
		"extra":  "value",
	}

	got := Merge(base, nil, override)
	want := map[string]any{
		"server": map[string]any{"host": "localhost", "port": 4100},
		"sync":   map[string]any{"command": "dotnet"},
		"extra":  "value",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}

	// inputs are not modified
	if base["server"].(map[string]any)["port"] != 4000 {
		t.Error("Merge() modified its input")
	}
}
