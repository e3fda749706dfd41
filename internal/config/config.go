package config

// Config is the secrets broker's complete startup configuration,
// loaded once and never hot-reloaded (the broker carries no mutable
// runtime state to reload into).
type Config struct {
	// Bus configures the connection to the pub/sub control plane.
	Bus BusConfig `koanf:"bus"`

	// Identity configures the broker's own cryptographic key material.
	Identity IdentityConfig `koanf:"identity"`

	// Subject configures the subject prefix and service name the
	// broker listens under.
	Subject SubjectConfig `koanf:"subject"`

	// JWKS configures the embedded key-publication HTTP endpoint.
	JWKS JWKSConfig `koanf:"jwks"`

	// Vault configures the upstream secret store.
	Vault VaultConfig `koanf:"vault"`
}

// BusConfig describes how to reach the pub/sub control plane.
type BusConfig struct {
	Address string `koanf:"address" usage:"pub/sub control plane address"`
	JWT     string `koanf:"jwt" usage:"optional bus-level authentication JWT"`
	Seed    string `koanf:"seed" usage:"optional bus-level authentication nkey seed"`
}

// IdentityConfig carries the broker's signing and encryption key seeds.
type IdentityConfig struct {
	SigningSeed string `koanf:"signing_seed" usage:"broker Ed25519 signing nkey seed"`
	XKeySeed    string `koanf:"xkey_seed" usage:"broker curve25519 xkey seed"`
}

// SubjectConfig derives the subjects and queue group the broker
// listens under.
type SubjectConfig struct {
	Prefix      string `koanf:"prefix" usage:"subject prefix, e.g. wasmcloud.secrets"`
	ServiceName string `koanf:"service_name" usage:"service name segment of the subject"`
}

// JWKSConfig configures the embedded JWKS HTTP server.
type JWKSConfig struct {
	BindAddress string `koanf:"bind_address" usage:"address the JWKS HTTP server binds to"`
}

// VaultConfig configures how the broker authenticates to and reads
// from the upstream secret store.
type VaultConfig struct {
	Address             string `koanf:"address" usage:"upstream secret store address"`
	AuthMount           string `koanf:"auth_mount" usage:"upstream JWT auth-method mount point"`
	Audience            string `koanf:"audience" usage:"aud claim on minted assertions"`
	DefaultSecretEngine string `koanf:"default_secret_engine" usage:"default secret engine mount when policy omits one"`
	DefaultNamespace    string `koanf:"default_namespace" usage:"default upstream namespace when policy omits one"`
}

// DefaultConfig returns the configuration defaults applied before a
// config file or environment overrides are loaded.
func DefaultConfig() Config {
	return Config{
		Subject: SubjectConfig{
			Prefix:      "wasmcloud.secrets",
			ServiceName: "vault",
		},
		JWKS: JWKSConfig{
			BindAddress: "0.0.0.0:8080",
		},
		Vault: VaultConfig{
			Audience:            "Vault",
			DefaultSecretEngine: "secret",
		},
	}
}
