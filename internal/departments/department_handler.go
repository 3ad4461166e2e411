package departments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type DepartmentHandler struct {
	Repository *DepartmentRepository
}

func NewDepartmentHandler(r *DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{Repository: r}
}

func (h *DepartmentHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/departments", security.Authorize(roles.Manager), h.CreateDepartment)
	router.GET("/departments", security.Authorize(roles.Viewer), h.GetDepartments)
	router.GET("/departments/:id", security.Authorize(roles.Viewer), h.GetDepartment)
	router.PATCH("/departments/:id", security.Authorize(roles.Manager), h.UpdateDepartment)
	router.DELETE("/departments/:id", security.Authorize(roles.Admin), h.RemoveDepartment)
}

func (h *DepartmentHandler) GetDepartments(c *gin.Context) {
	departments, err := h.Repository.GetDepartments()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list departments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	departmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	department, err := h.Repository.GetDepartment(departmentID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Department not found", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var department models.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if department.Name == "" || department.Code == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Department name and code are required"})
		return
	}

	err := h.Repository.PersistDepartment(&department)
	var unique *apperrors.UniqueViolationError
	if errors.As(err, &unique) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert department, code not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert department"})
		return
	}

	c.JSON(http.StatusCreated, department)
}

func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	departmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	department, err := h.Repository.UpdateDepartment(departmentID, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update department", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) RemoveDepartment(c *gin.Context) {
	departmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid department id"})
		return
	}

	err = h.Repository.RemoveDepartment(departmentID)
	var fk *apperrors.ForeignKeyViolationError
	if errors.As(err, &fk) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete department", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete department", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}
