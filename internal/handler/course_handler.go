package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/dto"
	"anoa.com/peerreview/internal/facade"
	"anoa.com/peerreview/pkg/response"
)

type CourseHandler struct {
	facade *facade.Facade
}

func NewCourseHandler(f *facade.Facade) *CourseHandler {
	return &CourseHandler{facade: f}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := attributes.NewCourseAttributes(req.CourseID, req.Name, req.TimeZone, req.Institute)
	if err := h.facade.CreateCourseAndInstructor(c.Request.Context(), accountID, course); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "course created successfully"})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.facade.GetCourse(c.Request.Context(), c.Param("courseid"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) GetCourseWithSessions(c *gin.Context) {
	combined, err := h.facade.GetCourseAndFeedbackSessions(c.Request.Context(), c.Param("courseid"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if combined == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"course":            combined.Course,
		"feedback_sessions": combined.FeedbackSessions,
	})
}

func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courses, err := h.facade.GetCoursesForInstructorAccount(c.Request.Context(), accountID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": courses})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.facade.UpdateCourseCascade(c.Request.Context(), attributes.CourseUpdateOptions{
		CourseID:  c.Param("courseid"),
		Name:      req.Name,
		TimeZone:  req.TimeZone,
		Institute: req.Institute,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CourseHandler) BinCourse(c *gin.Context) {
	deletedAt, err := h.facade.MoveCourseToRecycleBin(c.Request.Context(), c.Param("courseid"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_at": deletedAt})
}

func (h *CourseHandler) RestoreCourse(c *gin.Context) {
	if err := h.facade.RestoreCourseFromRecycleBin(c.Request.Context(), c.Param("courseid")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course restored successfully"})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.facade.DeleteCourseCascade(c.Request.Context(), c.Param("courseid")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted successfully"})
}
