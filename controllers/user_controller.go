package controllers

import (
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
	validator   *utils.ValidationService
}

func NewUserController(userService *services.UserService, validator *utils.ValidationService) *UserController {
	return &UserController{
		userService: userService,
		validator:   validator,
	}
}

// GetMe returns the caller's profile
// GET /api/v1/users/me
func (uc *UserController) GetMe(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := uc.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", user)
}

// UpdateMe applies a partial profile edit
// PUT /api/v1/users/me
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", user)
}

// UpdateStatus toggles the calling volunteer's availability
// PUT /api/v1/users/me/status
func (uc *UserController) UpdateStatus(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := uc.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := uc.userService.UpdateStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Status updated", user)
}

// GetVolunteers lists volunteers, optionally filtered by availability
// GET /api/v1/volunteers?status=available
func (uc *UserController) GetVolunteers(c *gin.Context) {
	volunteers, err := uc.userService.GetVolunteers(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Volunteers retrieved", volunteers)
}

// ListUsers is the admin user directory
// GET /api/v1/admin/users
func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	users, total, err := uc.userService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Users retrieved", users, &models.MetaData{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: utils.CalculateTotalPages(total, pageSize),
	})
}

// UpdateRole is the admin-only role change
// PUT /api/v1/admin/users/:id/role
func (uc *UserController) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	if validationErrors := uc.validator.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := uc.userService.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Role updated", user)
}
