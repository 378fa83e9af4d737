package views

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hero.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nhero"), 0600))
	return path
}
