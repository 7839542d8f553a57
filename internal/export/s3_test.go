// ABOUTME: Tests for S3 export helpers
// ABOUTME: Covers configuration checks, environment fallback and object keys
package export

import (
	"context"
	"testing"
)

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		cfg      S3Config
		expected bool
	}{
		{"empty", S3Config{}, false},
		{"no secret", S3Config{Bucket: "b", AccessKeyID: "k"}, false},
		{"no bucket", S3Config{AccessKeyID: "k", SecretAccessKey: "s"}, false},
		{"complete", S3Config{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsConfigured(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWithEnv(t *testing.T) {
	t.Setenv("CHORUS_S3_BUCKET", "env-bucket")
	t.Setenv("CHORUS_S3_ACCESS_KEY_ID", "env-key")
	t.Setenv("CHORUS_S3_SECRET_ACCESS_KEY", "env-secret")

	cfg := S3Config{Bucket: "flag-bucket"}.WithEnv()

	if cfg.Bucket != "flag-bucket" {
		t.Errorf("expected explicit bucket to win, got %s", cfg.Bucket)
	}
	if cfg.AccessKeyID != "env-key" || cfg.SecretAccessKey != "env-secret" {
		t.Errorf("expected credentials from environment, got %+v", cfg)
	}
	if !cfg.IsConfigured() {
		t.Error("expected config to be complete")
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Evening Choir", "renders/evening-choir-abc.wav"},
		{"  Alto & Bass!! ", "renders/alto-bass-abc.wav"},
		{"Übung 2", "renders/übung-2-abc.wav"},
		{"", "renders/mix-abc.wav"},
		{"???", "renders/mix-abc.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.name, "abc"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUploadRequiresConfig(t *testing.T) {
	if err := Upload(context.Background(), S3Config{}, "k", []byte("x")); err == nil {
		t.Error("expected error for unconfigured upload")
	}

	cfg := S3Config{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"}
	if err := Upload(context.Background(), cfg, "k", nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestNewClientRegion(t *testing.T) {
	client := newClient(S3Config{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"})
	if got := client.Options().Region; got != "auto" {
		t.Errorf("expected default region auto, got %s", got)
	}

	client = newClient(S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("expected eu-west-1, got %s", opts.Region)
	}
	if !opts.UsePathStyle {
		t.Error("expected path-style addressing with a custom endpoint")
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Error("expected custom base endpoint")
	}
}
