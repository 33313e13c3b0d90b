package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcp-server-go/stats"
)

// TotalStudents handles GET /api/students/stats/total
func (h *APIHandler) TotalStudents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"total": stats.Total(h.Students.All())})
}

// YearCounts handles GET /api/students/stats/year
func (h *APIHandler) YearCounts(c *gin.Context) {
	c.JSON(http.StatusOK, stats.YearCounts(h.Students.All()))
}

// AverageAttendance handles GET /api/students/stats/attendance
func (h *APIHandler) AverageAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, stats.AverageAttendanceByYear(h.Students.All()))
}

// PassFail handles GET /api/students/stats/passfail
func (h *APIHandler) PassFail(c *gin.Context) {
	c.JSON(http.StatusOK, stats.PassFail(h.Students.All(), h.Opts.PassMark))
}

type lowAttendanceQuery struct {
	Threshold *float64 `form:"threshold" binding:"omitempty,min=0,max=100"`
}

// LowAttendance handles GET /api/students/stats/low-attendance
func (h *APIHandler) LowAttendance(c *gin.Context) {
	var q lowAttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	threshold := h.Opts.LowAttendanceThreshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}
	c.JSON(http.StatusOK, stats.LowAttendance(h.Students.All(), threshold))
}

// Toppers handles GET /api/students/topper/all
func (h *APIHandler) Toppers(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Toppers(h.Students.All()))
}
