package config

import (
	"fmt"
	"slices"
	"sync"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// GlobalConfig is read from flat environment variables, every section is squashed.
type GlobalConfig struct {
	Database Database `mapstructure:",squash"`
	Redis    Redis    `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	OAuth2   OAuth2   `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Log      Log      `mapstructure:",squash"`
	Trace    Trace    `mapstructure:",squash"`
	Sample   Sample   `mapstructure:",squash"`
}

var (
	global   *GlobalConfig
	initOnce sync.Once
)

// Global returns the process config. Until Load runs it only holds defaults.
func Global() *GlobalConfig {
	initOnce.Do(func() {
		global = mustDefaults()
	})
	return global
}

func mustDefaults() *GlobalConfig {
	conf := &GlobalConfig{}
	if err := defaults.Set(conf); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return conf
}

// Load reads the optional .env files and the environment over the defaults.
// loaded reports whether any env file was found.
func Load(envFiles ...string) (conf *GlobalConfig, loaded bool, err error) {
	loaded = godotenv.Load(envFiles...) == nil

	conf = mustDefaults()
	if err = Decode(viper.NewWithOptions(viper.ExperimentalBindStruct()), conf); err != nil {
		return nil, loaded, err
	}

	current := Global()
	*current = *conf
	return current, loaded, nil
}

// Decode fills conf from the environment bound to v and checks the enumerated options.
func Decode(v *viper.Viper, conf *GlobalConfig) error {
	v.AutomaticEnv()
	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("decode env: %w", err)
	}
	if !slices.Contains([]SequenceScope{ScopeWell, ScopeGlobal}, conf.Sample.SequenceScope) {
		return fmt.Errorf("SAMPLE_SEQUENCE_SCOPE %q: want %s or %s", conf.Sample.SequenceScope, ScopeWell, ScopeGlobal)
	}
	if !slices.Contains([]AuthSource{AuthOAuth2, AuthJWT}, conf.Auth.AuthSource) {
		return fmt.Errorf("OAUTH_SOURCE %q: want %s or %s", conf.Auth.AuthSource, AuthOAuth2, AuthJWT)
	}
	return nil
}
