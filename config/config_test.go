package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, "consegne.db", cfg.DBPath)
	require.Equal(t, 30, cfg.PushTTL)
	require.Equal(t, 2000, cfg.MsgMaxLen)
	//push stays disabled until keys are provided
	require.Empty(t, cfg.VAPIDPublicKey)
	require.Empty(t, cfg.VAPIDPrivateKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
	t.Setenv("PUSH_PER_SEC", "5")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.HTTPPort)
	require.Equal(t, "pub", cfg.VAPIDPublicKey)
	require.Equal(t, "priv", cfg.VAPIDPrivateKey)
	require.Equal(t, 5, cfg.PushPerSec)
}
