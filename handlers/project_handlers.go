package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcp-server-go/models"
)

type newProjectRequest struct {
	PRN   int64  `json:"prn" binding:"required"`
	Title string `json:"title" binding:"required"`
	Desc  string `json:"desc"`
}

// GetProjects handles GET /api/projects
func (h *APIHandler) GetProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.Projects.All())
}

// AddProject handles POST /api/projects. The PRN must belong to a student,
// whose name is copied onto the project.
func (h *APIHandler) AddProject(c *gin.Context) {
	var req newProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	student, err := h.Students.Get(req.PRN)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No student found with this PRN"})
		return
	}

	project := models.Project{
		PRN:   req.PRN,
		Name:  student.Name,
		Title: req.Title,
		Desc:  req.Desc,
	}
	h.Projects.Add(project)
	requestLogger(c, h.Logger).WithField("prn", req.PRN).Info("Project added")
	c.JSON(http.StatusCreated, project)
}
