package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MASTER_PASSWORD", "master")
	t.Setenv("ENCRYPTION_KEY", "enc")
	t.Setenv("JWT_SECRET", "jwt")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.True(t, cfg.RunMigrations)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL())
	require.Equal(t, "*", cfg.CORSOrigins)
	require.False(t, cfg.TLS())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MASTER_PASSWORD", "")
	t.Setenv("ENCRYPTION_KEY", "enc")
	t.Setenv("JWT_SECRET", "jwt")
	os.Unsetenv("MASTER_PASSWORD")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_InvalidSessionDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_DURATION", "0")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("SESSION_DURATION", "soon")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoad_TLSPair(t *testing.T) {
	setRequired(t)
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("TLS_KEY_FILE", "key.pem")
	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.TLS())
}

func TestLoad_EnvFile(t *testing.T) {
	for _, k := range []string{"MASTER_PASSWORD", "ENCRYPTION_KEY", "JWT_SECRET", "SESSION_DURATION"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("MASTER_PASSWORD=m\nENCRYPTION_KEY=e\nJWT_SECRET=j\nSESSION_DURATION=60\n"), 0o600))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "m", cfg.Secrets.MasterPassword)
	require.Equal(t, time.Minute, cfg.SessionTTL())

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestSecrets_Redacted(t *testing.T) {
	s := Secrets{MasterPassword: "m4st3r", EncryptionKey: "k3y", JWTSecret: "jwt"}
	for _, f := range []string{"%v", "%+v", "%s", "%#v"} {
		out := fmt.Sprintf(f, s)
		require.NotContains(t, out, "m4st3r", f)
		require.NotContains(t, out, "k3y", f)
	}
}
