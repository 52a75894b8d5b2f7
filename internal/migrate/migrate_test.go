package migrate

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/chatcore/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Contains(t, names, "00001_init.sql")
}

func TestApply_NilDB(t *testing.T) {
	t.Parallel()

	err := Apply(context.Background(), nil, migrations.FS, zaptest.NewLogger(t))
	require.ErrorContains(t, err, "migrations provider")
}
