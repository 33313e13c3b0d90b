package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"studentcp-server-go/db"
	"studentcp-server-go/models"
	"studentcp-server-go/stats"
)

// Options are the tunables the handlers read from configuration.
type Options struct {
	AdminUsername          string
	AdminPassword          string
	LowAttendanceThreshold float64
	PassMark               float64
}

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Students *db.StudentStore
	Projects *db.ProjectStore
	Trash    db.Trash
	Redis    *redis.Client // nil when Redis is not configured
	Logger   logrus.FieldLogger
	Opts     Options
}

// NewAPIHandler creates a new APIHandler. Zero thresholds fall back to the
// stats package defaults.
func NewAPIHandler(students *db.StudentStore, projects *db.ProjectStore, trash db.Trash, logger logrus.FieldLogger, opts Options) *APIHandler {
	if opts.LowAttendanceThreshold == 0 {
		opts.LowAttendanceThreshold = stats.DefaultLowAttendanceThreshold
	}
	if opts.PassMark == 0 {
		opts.PassMark = stats.DefaultPassMark
	}
	return &APIHandler{
		Students: students,
		Projects: projects,
		Trash:    trash,
		Logger:   logger,
		Opts:     opts,
	}
}

// parsePRN reads the :prn path parameter. A non-numeric PRN matches no student.
func parsePRN(c *gin.Context) (int64, bool) {
	prn, err := strconv.ParseInt(c.Param("prn"), 10, 64)
	return prn, err == nil
}

// --- Student Handlers ---

type listQuery struct {
	Year          int      `form:"year"`
	Division      string   `form:"division"`
	MinAttendance *float64 `form:"minAttendance"`
	MinAverage    *float64 `form:"minAverage"`
	SortBy        string   `form:"sortBy" binding:"omitempty,oneof=name prn year attendance average"`
}

// GetAllStudents handles GET /api/students
func (h *APIHandler) GetAllStudents(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	students := h.Students.All()
	students = stats.Filter{
		Year:          q.Year,
		Division:      q.Division,
		MinAttendance: q.MinAttendance,
		MinAverage:    q.MinAverage,
	}.Apply(students)
	stats.SortBy(students, q.SortBy)

	c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /api/students/:prn. An unknown PRN yields {}.
func (h *APIHandler) GetStudent(c *gin.Context) {
	prn, ok := parsePRN(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	student, err := h.Students.Get(prn)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, student)
}

// AddStudent handles POST /api/students/add
func (h *APIHandler) AddStudent(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		respondBindError(c, err)
		return
	}
	h.Students.Add(student)
	requestLogger(c, h.Logger).WithField("prn", student.PRN).Info("Student added")
	c.JSON(http.StatusOK, gin.H{"message": "Student added"})
}

// UpdateStudent handles PUT /api/students/:prn
func (h *APIHandler) UpdateStudent(c *gin.Context) {
	patch, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	prn, ok := parsePRN(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Student updated"})
		return
	}

	matched, err := h.Students.Update(prn, patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	requestLogger(c, h.Logger).WithFields(logrus.Fields{"prn": prn, "matched": matched}).Info("Student updated")
	c.JSON(http.StatusOK, gin.H{"message": "Student updated"})
}

// DeleteStudent handles DELETE /api/students/:prn. Removed records go to
// the trash so they can be restored.
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	prn, ok := parsePRN(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
		return
	}

	removed := h.Students.Delete(prn)
	logger := requestLogger(c, h.Logger).WithFields(logrus.Fields{"prn": prn, "removed": len(removed)})
	if len(removed) > 0 {
		if err := h.Trash.Push(c.Request.Context(), removed...); err != nil {
			logger.WithError(err).Error("Error moving deleted student to trash")
		}
	}
	logger.Info("Student deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// ClearStudents handles DELETE /api/students
func (h *APIHandler) ClearStudents(c *gin.Context) {
	n := h.Students.Clear()
	requestLogger(c, h.Logger).WithField("removed", n).Warn("All students cleared")
	c.JSON(http.StatusOK, gin.H{"message": "All students cleared"})
}

// RestoreStudent handles POST /api/students/restore
func (h *APIHandler) RestoreStudent(c *gin.Context) {
	student, err := h.Trash.Pop(c.Request.Context())
	if err != nil {
		if errors.Cause(err) == db.ErrTrashEmpty {
			c.JSON(http.StatusNotFound, gin.H{"message": "Nothing to restore"})
			return
		}
		requestLogger(c, h.Logger).WithError(err).Error("Error restoring student")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore student"})
		return
	}
	h.Students.Add(student)
	requestLogger(c, h.Logger).WithField("prn", student.PRN).Info("Student restored")
	c.JSON(http.StatusOK, gin.H{"message": "Student restored", "student": student})
}

type attendanceRequest struct {
	Present *bool `json:"present" binding:"required"`
}

// MarkAttendance handles POST /api/students/attendance/:prn
func (h *APIHandler) MarkAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	prn, ok := parsePRN(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}

	student, err := h.Students.MarkAttendance(prn, *req.Present)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance updated", "student": student})
}

// SearchByName handles GET /api/students/search/name/:name
func (h *APIHandler) SearchByName(c *gin.Context) {
	c.JSON(http.StatusOK, stats.SearchByName(h.Students.All(), c.Param("name")))
}

// --- Import / Export Handlers ---

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportStudents handles POST /api/students/import
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	logger := requestLogger(c, h.Logger).WithField("filename", header.Filename)
	students, err := db.ReadStudentsXLSX(file, logger)
	if err != nil {
		logger.WithError(err).Warn("Error importing students")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to import students: " + err.Error()})
		return
	}
	if len(students) > 0 {
		h.Students.Add(students...)
	}
	logger.WithField("count", len(students)).Info("Imported students")
	c.JSON(http.StatusOK, gin.H{"message": "Import successful", "importedCount": len(students)})
}

// ExportStudents handles GET /api/students/export
func (h *APIHandler) ExportStudents(c *gin.Context) {
	var buf bytes.Buffer
	if err := db.WriteStudentsXLSX(&buf, h.Students.All()); err != nil {
		requestLogger(c, h.Logger).WithError(err).Error("Error exporting students")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export students"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Misc Handlers ---

// Home handles GET /
func Home(c *gin.Context) {
	c.String(http.StatusOK, "StudentCP Backend is running!")
}

// Ping handles GET /api/ping and reports Redis reachability when configured.
func (h *APIHandler) Ping(c *gin.Context) {
	resp := gin.H{"message": "Pong!"}
	if h.Redis != nil {
		if err := h.Redis.Ping(c.Request.Context()).Err(); err != nil {
			resp["redis"] = "unavailable"
		} else {
			resp["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}
