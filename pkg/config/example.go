package config

// ExampleConfig returns a configuration with example values for use with `macbundle init`
func ExampleConfig() *Config {
	hardened := true
	cfg := &Config{
		Relocate: RelocateConfig{
			Actions:   []string{"build", "install"},
			Token:     "@rpath",
			SearchDir: "/opt/homebrew/lib",
		},
		Inspect: InspectConfig{
			Backend: "otool",
		},
		Sign: SignConfig{
			Identity:        "env(MACBUNDLE_SIGN_IDENTITY)",
			HardenedRuntime: &hardened,
			Timestamp:       false,
			VerifyIdentity:  true,
			Verify:          true,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}
