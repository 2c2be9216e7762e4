// ABOUTME: Request handlers for the JSON and multipart generate endpoints.
// ABOUTME: Both accept the same inputs and return the same BatchResult shape.

package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nau-tools/edx-reportgen/internal/courses"
	"github.com/nau-tools/edx-reportgen/internal/lms"
	"github.com/nau-tools/edx-reportgen/internal/report"
	"go.uber.org/zap"
)

// advisoryNote reminds callers that submission is asynchronous: the generated
// files appear later under the course's instructor Data Download tab.
const advisoryNote = "Reports are submitted. Download them later from the LMS Instructor Data Download tab."

type generateRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	LMSURL       string `json:"lms_url" binding:"required"`
	Report       string `json:"report" binding:"required"`
	CoursesInput string `json:"courses_input" binding:"required"`
}

type batchResponse struct {
	report.BatchResult
	Note string `json:"note"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.runBatch(c, req.LMSURL, req.Email, req.Password, req.Report, req.CoursesInput)
}

func (s *Server) handleGenerateMultipart(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	lmsURL := c.PostForm("lms_url")
	reportName := c.PostForm("report")
	coursesInput := c.PostForm("courses_input")

	if email == "" || password == "" || lmsURL == "" || reportName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email, password, lms_url and report are required"})
		return
	}

	if fileHeader, err := c.FormFile("courses_file"); err == nil {
		if fileHeader.Size > s.cfg.MaxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "courses_file is too large"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read courses_file"})
			return
		}
		content, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read courses_file"})
			return
		}
		coursesInput = courses.Merge(coursesInput, string(content))
	}

	s.runBatch(c, lmsURL, email, password, reportName, coursesInput)
}

// runBatch is the shared tail of both endpoints: normalize, validate the
// kind, authenticate, submit, respond. Batch-level failures map to distinct
// statuses; per-course failures ride inside a 200 BatchResult.
func (s *Server) runBatch(c *gin.Context, lmsURL, email, password, reportName, coursesInput string) {
	kind, err := report.ParseKind(reportName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	entries, err := courses.Normalize(coursesInput, courses.Options{Dedupe: true})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Please provide at least one course ID."})
		return
	}

	batch, err := s.runner.Run(c.Request.Context(), lmsURL, lms.Credentials{Email: email, Password: password}, kind, entries)
	if err != nil {
		if errors.Is(err, lms.ErrAuthenticationFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid login, check credentials and permissions."})
			return
		}
		s.log.Error("login failed", zap.String("lms_url", lmsURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Unexpected error while logging in."})
		return
	}

	s.log.Info("batch complete",
		zap.String("lms_url", lmsURL),
		zap.String("report", reportName),
		zap.Int("total", batch.Total),
		zap.Int("failed", batch.FailedCount),
	)
	c.JSON(http.StatusOK, batchResponse{BatchResult: batch, Note: advisoryNote})
}
