package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/smart-task/internal/services"
)

func (h *handlerImpl) HandleGetMe(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    newUserResponse(user),
	})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), services.UpdateProfileParams{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    newUserResponse(user),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *handlerImpl) HandleChangePassword(c *gin.Context) {
	session, ok := getSessionFromContext(c)
	if !ok {
		h.logger.Error().Msg("no session found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	var req changePasswordRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	result, err := h.auth.ChangePassword(c.Request.Context(), services.ChangePasswordParams{
		UserID:          session.User.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		RememberMe:      session.RememberMe,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to change password")
		return
	}

	// Older tokens are revoked, so the caller needs a fresh one.
	h.setSessionCookie(c, result.Token, result.TokenExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}
