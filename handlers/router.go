package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *APIHandler, logger logrus.FieldLogger) *gin.Engine {
	initValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), cors.Default())

	router.GET("/", Home)

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)
		api.POST("/login", h.Login)

		// Student CRUD
		students := api.Group("/students")
		students.GET("", h.GetAllStudents)
		students.DELETE("", h.ClearStudents)
		students.POST("/add", h.AddStudent)
		students.POST("/restore", h.RestoreStudent)
		students.GET("/:prn", h.GetStudent)
		students.PUT("/:prn", h.UpdateStudent)
		students.DELETE("/:prn", h.DeleteStudent)
		students.POST("/attendance/:prn", h.MarkAttendance)

		// Dashboard
		students.GET("/stats/total", h.TotalStudents)
		students.GET("/stats/year", h.YearCounts)
		students.GET("/stats/attendance", h.AverageAttendance)
		students.GET("/stats/passfail", h.PassFail)
		students.GET("/stats/low-attendance", h.LowAttendance)
		students.GET("/topper/all", h.Toppers)
		students.GET("/search/name/:name", h.SearchByName)

		// Spreadsheets
		students.POST("/import", h.ImportStudents)
		students.GET("/export", h.ExportStudents)

		// Projects
		api.GET("/projects", h.GetProjects)
		api.POST("/projects", h.AddProject)
	}
	return router
}
