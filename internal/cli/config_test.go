package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bitroute.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
rooms = "world.json"
bits = 256

[render]
dir = "frames"
format = "dot"
every = 10
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig(): %v", err)
	}
	if cfg.Rooms != "world.json" || cfg.Bits != 256 {
		t.Errorf("cfg = %+v, want rooms world.json and 256 bits", cfg)
	}
	if cfg.Render.Dir != "frames" || cfg.Render.Format != "dot" || cfg.Render.Every != 10 {
		t.Errorf("render cfg = %+v", cfg.Render)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadConfig() = nil error for a missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config
		wantErr bool
	}{
		{"ok", config{Rooms: "w.json", Bits: 8}, false},
		{"zero bits ok", config{Rooms: "w.json"}, false},
		{"no rooms", config{Bits: 8}, true},
		{"negative bits", config{Rooms: "w.json", Bits: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateNoRoomsSentinel(t *testing.T) {
	var cfg config
	if err := cfg.validate(); !errors.Is(err, errNoRooms) {
		t.Errorf("validate() = %v, want errNoRooms", err)
	}
}
