package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login. It is a plain comparison against the
// configured admin credentials; no session or token is issued. Missing
// fields are just a failed match.
func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Username == h.Opts.AdminUsername && req.Password == h.Opts.AdminPassword {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	requestLogger(c, h.Logger).WithField("username", req.Username).Warn("Failed login")
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
}
