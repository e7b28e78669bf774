package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func TestValidateFileInfo(t *testing.T) {
	v := NewValidator(1024)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "valid pdf", path: writeFile(t, "doc.pdf", 100)},
		{name: "uppercase extension", path: writeFile(t, "DOC.PDF", 100)},
		{name: "wrong extension", path: writeFile(t, "doc.txt", 100), wantErr: "not a PDF"},
		{name: "empty file", path: writeFile(t, "empty.pdf", 0), wantErr: "empty"},
		{name: "too large", path: writeFile(t, "big.pdf", 2048), wantErr: "too large"},
		{name: "directory", path: t.TempDir(), wantErr: "directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(tt.path)
			require.NoError(t, err)

			err = v.ValidateFileInfo(tt.path, info)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateFileMissing(t *testing.T) {
	v := NewValidator(1024)

	err := v.ValidateFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	assert.Error(t, v.ValidateFile(""))
	assert.False(t, v.IsValidPDF(""))
}

func TestValidateFileRejectsGarbage(t *testing.T) {
	v := NewValidator(1 << 20)

	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	assert.Error(t, v.ValidateFile(path), "structural validation must reject non-PDF content")
}
