package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	conf := Global()
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Equal(t, 5432, conf.Database.Port)
	assert.Equal(t, 8080, conf.Server.Port)
	assert.Equal(t, ScopeWell, conf.Sample.SequenceScope)
	assert.Equal(t, "MC", conf.Sample.MicroCoreToken)
	assert.Equal(t, "CUT", conf.Sample.CuttingsToken)
	assert.Equal(t, 5*time.Second, conf.Sample.LockTTL)
	assert.Equal(t, AuthOAuth2, conf.Auth.AuthSource)
	assert.Equal(t, []string{"read", "write", "offline_access"}, conf.OAuth2.Scopes)
}

func TestDecodeEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SAMPLE_SEQUENCE_SCOPE", "global")
	t.Setenv("SAMPLE_CUTTINGS_TOKEN", "CT")
	t.Setenv("WEB_PORT", "9000")

	conf := mustDefaults()
	require.NoError(t, Decode(viper.NewWithOptions(viper.ExperimentalBindStruct()), conf))

	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, ScopeGlobal, conf.Sample.SequenceScope)
	assert.Equal(t, "CT", conf.Sample.CuttingsToken)
	assert.Equal(t, 9000, conf.Server.Port)
	assert.Equal(t, "MC", conf.Sample.MicroCoreToken)
}

func TestDecodeRejectsUnknownScope(t *testing.T) {
	t.Setenv("SAMPLE_SEQUENCE_SCOPE", "basin")
	err := Decode(viper.NewWithOptions(viper.ExperimentalBindStruct()), mustDefaults())
	assert.ErrorContains(t, err, "SAMPLE_SEQUENCE_SCOPE")
}

func TestLoadEnvFile(t *testing.T) {
	saved := *Global()
	t.Cleanup(func() { *Global() = saved })

	path := filepath.Join(t.TempDir(), "rockin.env")
	require.NoError(t, os.WriteFile(path, []byte("SAMPLE_MICRO_CORE_TOKEN=MK\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SAMPLE_MICRO_CORE_TOKEN") })

	conf, loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "MK", conf.Sample.MicroCoreToken)
	assert.Same(t, Global(), conf)

	_, loaded, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}
