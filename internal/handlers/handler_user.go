package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

// userHandler handles HTTP requests for the authenticated user's own account
// and the admin user surface.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers profile and credential routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.updateProfile)
		users.POST("/me/reauth", h.reauthenticate)
		users.PUT("/me/email", h.updateEmail)
		users.PUT("/me/password", h.updatePassword)
	}
}

// registerAdminRoutes registers the admin-only user management routes. The
// service layer enforces the is_admin check.
func registerAdminRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newUserHandler(userService)
	lh := newWalletHandler(ledgerService)

	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.PUT("/users/:userID", h.adminUpdateUser)
		admin.GET("/users/:userID/ledger-check", lh.ledgerCheck)
	}
}

// getMe godoc
// @Summary Get own account
// @Description Returns the authenticated user's account, including the wallet balance.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update own profile
// @Description Updates name, surname and phone number. Omitted fields are left unchanged.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (h *userHandler) updateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// reauthenticate godoc
// @Summary Verify current password
// @Description Performs the fresh credential check required before email or password changes.
// @Tags users
// @Accept json
// @Produce json
// @Param reauth body dto.ReauthRequest true "Current password"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/reauth [post]
func (h *userHandler) reauthenticate(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ReauthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.userService.Reauthenticate(c.Request.Context(), userID, req.Password); err != nil {
		respondError(c, err, "Failed to re-authenticate")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateEmail godoc
// @Summary Change login email
// @Description Re-authenticates with the current password, then changes the login email.
// @Tags users
// @Accept json
// @Produce json
// @Param email body dto.UpdateEmailRequest true "Current password and new email"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Re-authentication failed"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /users/me/email [put]
func (h *userHandler) updateEmail(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateEmail(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update email")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updatePassword godoc
// @Summary Change password
// @Description Re-authenticates with the current password, then replaces it.
// @Tags users
// @Accept json
// @Produce json
// @Param password body dto.UpdatePasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Re-authentication failed"
// @Security BearerAuth
// @Router /users/me/password [put]
func (h *userHandler) updatePassword(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err, "Failed to update password")
		return
	}

	c.Status(http.StatusNoContent)
}

// listUsers godoc
// @Summary List users
// @Description Returns a page of all users. Requires admin.
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), requestingUserID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// adminUpdateUser godoc
// @Summary Update a user
// @Description Updates profile fields and the is_active / is_admin flags of any user. Requires admin.
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param user body dto.AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{userID} [put]
func (h *userHandler) adminUpdateUser(c *gin.Context) {
	requestingUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	targetUserID := c.Param("userID")

	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.AdminUpdateUser(c.Request.Context(), requestingUserID, targetUserID, req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
