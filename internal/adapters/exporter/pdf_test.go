package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExporter(t *testing.T) {
	dir := t.TempDir()
	exp := NewPDFExporter(dir, "chat", testLogger())

	require.NoError(t, exp.Export(testConversation()))

	data, err := os.ReadFile(filepath.Join(dir, "chat.pdf"))
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}
