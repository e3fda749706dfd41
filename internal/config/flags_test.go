package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildFlagMapping(t *testing.T) {
	mapping, fields := buildFlagMapping()

	tests := []struct {
		flagName   string
		configPath string
	}{
		{"bus-address", "bus.address"},
		{"identity-signing-seed", "identity.signing_seed"},
		{"subject-prefix", "subject.prefix"},
		{"jwks-bind-address", "jwks.bind_address"},
		{"vault-auth-mount", "vault.auth_mount"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			got, ok := mapping[tt.flagName]
			if !ok {
				t.Errorf("flag %q not found in mapping", tt.flagName)
				return
			}
			if got != tt.configPath {
				t.Errorf("mapping[%q] = %q, want %q", tt.flagName, got, tt.configPath)
			}
		})
	}

	if len(fields) < 5 {
		t.Errorf("expected at least 5 fields, got %d", len(fields))
	}
}

func TestConfigPathToFlagName(t *testing.T) {
	tests := []struct {
		configPath string
		want       string
	}{
		{"bus.address", "bus-address"},
		{"subject.service_name", "subject-service-name"},
		{"vault.default_secret_engine", "vault-default-secret-engine"},
	}

	for _, tt := range tests {
		t.Run(tt.configPath, func(t *testing.T) {
			got := configPathToFlagName(tt.configPath)
			if got != tt.want {
				t.Errorf("configPathToFlagName(%q) = %q, want %q", tt.configPath, got, tt.want)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)

	RegisterFlags(flagSet)

	expectedFlags := []string{
		"bus-address",
		"identity-signing-seed",
		"identity-xkey-seed",
		"subject-prefix",
		"subject-service-name",
		"jwks-bind-address",
		"vault-address",
		"vault-auth-mount",
	}

	for _, name := range expectedFlags {
		t.Run(name, func(t *testing.T) {
			if flagSet.Lookup(name) == nil {
				t.Errorf("flag %q not registered", name)
			}
		})
	}
}

func TestGetFlagMapping(t *testing.T) {
	mapping := GetFlagMapping()

	if len(mapping) == 0 {
		t.Error("GetFlagMapping() returned empty map")
	}
	if _, ok := mapping["bus-address"]; !ok {
		t.Error("mapping missing bus-address")
	}
	if _, ok := mapping["vault-auth-mount"]; !ok {
		t.Error("mapping missing vault-auth-mount")
	}
}
