package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "USER_TABLE", "UPLOAD_TABLE", "LOG_FORMAT", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Storage.UserTable != "user_data.csv" {
		t.Errorf("Expected user_data.csv, got %s", cfg.Storage.UserTable)
	}
	if cfg.Storage.UploadTable != "upload_data.csv" {
		t.Errorf("Expected upload_data.csv, got %s", cfg.Storage.UploadTable)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json log format, got %s", cfg.Log.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/console")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("WATCH_TABLES", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/var/lib/console" {
		t.Errorf("Expected data dir override, got %s", cfg.Storage.DataDir)
	}
	if cfg.Auth.BcryptCost != 4 {
		t.Errorf("Expected bcrypt cost 4, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Expected 5s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Storage.WatchTables {
		t.Error("Expected table watching disabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE", "lots")
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Upload.MaxUploadSize != 200*1024*1024 {
		t.Errorf("Expected default upload size, got %d", cfg.Upload.MaxUploadSize)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("Expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{DataDir: ".", UserTable: "u.csv", UploadTable: "f.csv"},
			Auth:    AuthConfig{BcryptCost: 10},
			Upload:  UploadConfig{MaxUploadSize: 1024},
			Log:     LogConfig{Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"empty user table", func(c *Config) { c.Storage.UserTable = "" }, true},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 1 }, true},
		{"bcrypt cost too high", func(c *Config) { c.Auth.BcryptCost = 40 }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"zero upload size", func(c *Config) { c.Upload.MaxUploadSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
