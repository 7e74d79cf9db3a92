package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Warnings  []string    `json:"warnings,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, APIResponse{Success: true, Data: data, Timestamp: time.Now()})
}

func JSONSuccessWithWarnings(c *gin.Context, code int, data interface{}, warnings []string) {
	c.JSON(code, APIResponse{Success: true, Data: data, Warnings: warnings, Timestamp: time.Now()})
}

func JSONError(c *gin.Context, status int, code, message string, details ...string) {
	apiErr := &APIError{Code: code, Message: message}
	if len(details) > 0 {
		apiErr.Details = details[0]
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr, Timestamp: time.Now()})
}
