package db

import (
	"sync"

	"github.com/sirupsen/logrus"

	"studentcp-server-go/models"
)

// ProjectStore holds student projects, persisted the same way as students.
type ProjectStore struct {
	path   string
	logger logrus.FieldLogger

	mu       sync.RWMutex
	projects []models.Project
}

// NewProjectStore loads the projects held in path.
func NewProjectStore(path string, logger logrus.FieldLogger) *ProjectStore {
	return &ProjectStore{
		path:     path,
		logger:   logger,
		projects: loadJSONList[models.Project](path, logger),
	}
}

// All returns a copy of every project in insertion order.
func (p *ProjectStore) All() []models.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Project{}, p.projects...)
}

// Add appends a project and rewrites the file.
func (p *ProjectStore) Add(project models.Project) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.projects = append(p.projects, project)
	if err := saveJSONList(p.path, p.projects); err != nil {
		p.logger.WithError(err).WithField("file", p.path).Error("Error writing file")
	}
}
