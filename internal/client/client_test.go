package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTLS_Variants(t *testing.T) {
	t.Parallel()

	c, err := LoadTLS("", true)
	require.NoError(t, err)
	require.NotNil(t, c)

	c, err = LoadTLS("", false)
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = LoadTLS(filepath.Join(t.TempDir(), "missing.pem"), false)
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a cert"), 0o600))
	_, err = LoadTLS(bad, false)
	require.ErrorContains(t, err, "bad CA cert")
}
