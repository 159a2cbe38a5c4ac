package user

import (
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	u, ok := val.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	return u, true
}

// Profile godoc
// @Summary Get current user profile
// @Description Get the authenticated user's profile, reloaded from the database.
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=ProfileResponse}
// @Failure 401 {object} utils.Response
// @Router /profile [get]
func Profile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	// Reload to skip the cached copy from middleware; the balance must be
	// current.
	var latest models.User
	if err := database.DB.First(&latest, u.ID).Error; err == nil {
		u = latest
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile retrieved successfully", ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}))
}

type UpdateProfileInput struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Description Update the authenticated user's email and/or password.
// @Tags user
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input  body  UpdateProfileInput  true  "Fields to update"
// @Success 200 {object} utils.Response{data=ProfileResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /profile [put]
func UpdateProfile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	if input.Email == "" && input.Password == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "No fields to update"))
		return
	}

	updated, err := services.UpdateProfile(u.ID, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile updated successfully", ProfileResponse{
		ID:        updated.ID,
		Username:  updated.Username,
		Email:     updated.Email,
		Role:      updated.Role,
		Balance:   updated.Balance,
		CreatedAt: updated.CreatedAt,
	}))
}

// Balance godoc
// @Summary Get current balance
// @Description Get the authenticated user's current balance.
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=BalanceResponse}
// @Failure 401 {object} utils.Response
// @Router /balance [get]
func Balance(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var latest models.User
	if err := database.DB.First(&latest, u.ID).Error; err == nil {
		u = latest
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Balance retrieved successfully", BalanceResponse{
		Balance:  u.Balance,
		Currency: "BRL",
	}))
}
