package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RInot-Aikcraft/cours/internal/models"
	"github.com/RInot-Aikcraft/cours/internal/service"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
	"github.com/RInot-Aikcraft/cours/pkg/response"
)

// StudentHandler exposes student CRUD endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students with account fields
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StudentWithAccount
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get one student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} models.StudentWithAccount
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Register a student and its account
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} map[string]interface{}
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"student": student, "message": "student created"})
}

// Update godoc
// @Summary Update a student, optionally replacing its photo
// @Tags Students
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	req, err := studentFormRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if file, err := c.FormFile("photo"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable photo"))
			return
		}
		defer src.Close()
		req.PhotoName = file.Filename
		req.Photo = src
	}

	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "student updated", "photoPath": student.PhotoPath})
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]string
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "student deleted"})
}

func studentFormRequest(c *gin.Context) (service.UpdateStudentRequest, error) {
	var req service.UpdateStudentRequest
	req.Name = c.PostForm("name")
	req.Surname = c.PostForm("surname")
	req.Address = c.PostForm("address")
	req.NationalID = c.PostForm("nationalId")
	req.Status = models.StudentStatus(c.PostForm("status"))
	req.Username = c.PostForm("username")
	req.Email = c.PostForm("email")

	birthDate, err := parseDateField(c.PostForm("birthDate"))
	if err != nil {
		return req, appErrors.Clone(appErrors.ErrValidation, "invalid birth date")
	}
	req.BirthDate = birthDate
	return req, nil
}

func parseDateField(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
