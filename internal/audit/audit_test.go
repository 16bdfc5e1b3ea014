package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor(t *testing.T) {
	tempDir := t.TempDir()

	auditor := NewAuditor(filepath.Join(tempDir, "audit"))

	t.Run("SaveUpload creates audit directory and saves file", func(t *testing.T) {
		blob := []byte(`{"entry.title": "Hello"}`)

		filename, err := auditor.SaveUpload("package.json", blob)
		require.NoError(t, err)
		assert.NotEmpty(t, filename)
		assert.Contains(t, filename, "package.json")

		saved, err := os.ReadFile(filepath.Join(auditor.AuditDir, filename))
		require.NoError(t, err)
		assert.Equal(t, blob, saved)
	})

	t.Run("SaveUpload generates unique filenames", func(t *testing.T) {
		blob := []byte("<content/>")

		filename1, err := auditor.SaveUpload("upload.xml", blob)
		require.NoError(t, err)

		filename2, err := auditor.SaveUpload("upload.xml", blob)
		require.NoError(t, err)

		assert.NotEqual(t, filename1, filename2)
	})

	t.Run("SaveUpload strips path components from the name", func(t *testing.T) {
		filename, err := auditor.SaveUpload("../nested/dir/upload.zip", []byte("x"))
		require.NoError(t, err)
		assert.NotContains(t, filename, "/")

		_, err = os.Stat(filepath.Join(auditor.AuditDir, filename))
		assert.NoError(t, err)
	})
}
