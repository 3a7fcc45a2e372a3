package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/dto"
	"anoa.com/peerreview/internal/facade"
	"anoa.com/peerreview/internal/model"
	"anoa.com/peerreview/pkg/response"
)

type InstructorHandler struct {
	facade *facade.Facade
}

func NewInstructorHandler(f *facade.Facade) *InstructorHandler {
	return &InstructorHandler{facade: f}
}

func (h *InstructorHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instructor := attributes.NewInstructorAttributes(c.Param("courseid"), req.Email, req.Name)
	if req.Role != "" {
		instructor.Role = req.Role
		instructor.Privileges = model.PrivilegesForRole(req.Role)
	}
	if req.DisplayedName != "" {
		instructor.DisplayedName = req.DisplayedName
	}
	if req.IsDisplayedToStudents != nil {
		instructor.IsDisplayedToStudents = *req.IsDisplayedToStudents
	}

	created, err := h.facade.CreateInstructor(c.Request.Context(), instructor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	instructors, err := h.facade.GetInstructorsForCourse(c.Request.Context(), c.Param("courseid"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": instructors})
}

func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	instructor, err := h.facade.GetInstructor(c.Request.Context(), c.Param("courseid"), c.Param("email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if instructor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "instructor not found"})
		return
	}

	c.JSON(http.StatusOK, instructor)
}

// JoinByRegistrationKey resolves a join link to the instructor it was
// issued for.
func (h *InstructorHandler) JoinByRegistrationKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registration key required"})
		return
	}

	instructor, err := h.facade.GetInstructorForRegistrationKey(c.Request.Context(), key)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if instructor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no instructor for this registration key"})
		return
	}

	c.JSON(http.StatusOK, instructor)
}

func (h *InstructorHandler) UpdateInstructorByEmail(c *gin.Context) {
	var req dto.UpdateInstructorByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := attributes.InstructorUpdateOptionsWithEmail{
		CourseID:              c.Param("courseid"),
		Email:                 c.Param("email"),
		Name:                  req.Name,
		IsArchived:            req.IsArchived,
		Role:                  req.Role,
		IsDisplayedToStudents: req.IsDisplayedToStudents,
		DisplayedName:         req.DisplayedName,
	}
	if req.Role != nil {
		privileges := model.PrivilegesForRole(*req.Role)
		opts.Privileges = &privileges
	}

	updated, err := h.facade.UpdateInstructorByEmail(c.Request.Context(), opts)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateSelf updates the instructor record of the authenticated account in
// the course, the account-keyed path.
func (h *InstructorHandler) UpdateSelf(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateInstructorByAccountIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := attributes.InstructorUpdateOptionsWithAccountID{
		CourseID:              c.Param("courseid"),
		AccountID:             accountID,
		Name:                  req.Name,
		Email:                 req.Email,
		IsArchived:            req.IsArchived,
		Role:                  req.Role,
		IsDisplayedToStudents: req.IsDisplayedToStudents,
		DisplayedName:         req.DisplayedName,
	}
	if req.Role != nil {
		privileges := model.PrivilegesForRole(*req.Role)
		opts.Privileges = &privileges
	}

	updated, err := h.facade.UpdateInstructorByAccountIDCascade(c.Request.Context(), opts)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *InstructorHandler) RegenerateRegistrationKey(c *gin.Context) {
	updated, err := h.facade.RegenerateInstructorRegistrationKey(c.Request.Context(),
		c.Param("courseid"), c.Param("email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *InstructorHandler) DeleteInstructor(c *gin.Context) {
	if err := h.facade.DeleteInstructorCascade(c.Request.Context(),
		c.Param("courseid"), c.Param("email")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "instructor deleted successfully"})
}
