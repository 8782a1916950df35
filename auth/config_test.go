package auth

import (
	"testing"
)

func TestConfigValidateDefaultsToRemote(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Mode != "remote" {
		t.Errorf("mode = %q, want remote", cfg.Mode)
	}
}

func TestConfigValidateHMAC(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"complete", &Config{Mode: "hmac", JWTSecret: []byte("secret"), Audience: "aud"}, false},
		{"missing secret", &Config{Mode: "hmac", Audience: "aud"}, true},
		{"missing audience", &Config{Mode: "hmac", JWTSecret: []byte("secret")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateOIDC(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"complete", &Config{Mode: "oidc", Issuer: "https://issuer", Audience: "aud"}, false},
		{"missing issuer", &Config{Mode: "oidc", Audience: "aud"}, true},
		{"missing audience", &Config{Mode: "oidc", Issuer: "https://issuer"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateUnknownMode(t *testing.T) {
	cfg := &Config{Mode: "saml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "hmac")
	t.Setenv("SUPABASE_URL", "https://identity.example.com")
	t.Setenv("GHL_DEFAULT_LOCATION", "loc-env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("OIDC_AUDIENCE", "env-aud")

	cfg := FromEnv()
	if cfg.Mode != "hmac" {
		t.Errorf("mode = %q, want hmac", cfg.Mode)
	}
	if cfg.IdentityBaseURL != "https://identity.example.com" {
		t.Errorf("identity base = %q", cfg.IdentityBaseURL)
	}
	if cfg.DefaultLocation != "loc-env" {
		t.Errorf("default location = %q", cfg.DefaultLocation)
	}
	if string(cfg.JWTSecret) != "env-secret" {
		t.Errorf("jwt secret = %q", cfg.JWTSecret)
	}
	if cfg.Audience != "env-aud" {
		t.Errorf("audience = %q", cfg.Audience)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "")
	t.Setenv("SUPABASE_URL", "")

	cfg := FromEnv()
	// Explicit empty values stay empty; defaults apply on Validate and in
	// the component constructors.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Mode != "remote" {
		t.Errorf("mode = %q, want remote", cfg.Mode)
	}
}
