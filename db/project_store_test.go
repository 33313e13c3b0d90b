package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentcp-server-go/logging"
	"studentcp-server-go/models"
)

func TestProjectStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	store := NewProjectStore(path, logging.Discard())
	assert.Empty(t, store.All())

	p := models.Project{PRN: 1, Name: "Asha", Title: "Compiler", Desc: "toy compiler"}
	store.Add(p)
	assert.Equal(t, []models.Project{p}, store.All())

	_, err := os.Stat(path)
	require.NoError(t, err)

	reloaded := NewProjectStore(path, logging.Discard())
	assert.Equal(t, []models.Project{p}, reloaded.All())
}
