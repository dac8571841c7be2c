package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/auth"
	"github.com/openshelf/librarian/internal/database/users"
	"github.com/openshelf/librarian/internal/entities"
	"github.com/openshelf/librarian/internal/mail"
	"github.com/openshelf/librarian/internal/tasks"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserUpdateInput carries the mutable profile fields of an account.
// Credentials and status change through their dedicated endpoints.
type UserUpdateInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

type UsersController struct {
	service    *auth.Service
	sessions   *auth.SessionManager
	store      *users.Repository
	taskClient *tasks.Client
}

// NewUsersController creates the controller. sessions may be nil when auth
// is disabled; taskClient may be nil, in which case reset tokens are not
// emailed.
func NewUsersController(service *auth.Service, sessions *auth.SessionManager, store *users.Repository, taskClient *tasks.Client) *UsersController {
	return &UsersController{
		service:    service,
		sessions:   sessions,
		store:      store,
		taskClient: taskClient,
	}
}

// Register creates a new account.
func (controller *UsersController) Register(c *gin.Context) {
	var input auth.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid user payload: "+err.Error())
		return
	}

	user, err := controller.service.CreateUser(input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondConflict(c, "username or email already taken")
		case errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register user")
		}
		return
	}
	respondCreated(c, user)
}

// Login verifies credentials and opens a session.
func (controller *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	user, err := controller.service.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			respondError(c, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrUserDeactivated):
			respondError(c, http.StatusForbidden, "account is deactivated")
		default:
			respondInternalError(c, err, "login")
		}
		return
	}

	if controller.sessions != nil {
		if err := controller.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

// Logout destroys the current session.
func (controller *UsersController) Logout(c *gin.Context) {
	if controller.sessions != nil {
		if err := controller.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "logout")
			return
		}
	}
	respondSuccess(c, "logged out")
}

func (controller *UsersController) GetAllUsers(c *gin.Context) {
	var (
		result []entities.User
		err    error
	)
	if status := c.Query("status"); status != "" {
		result, err = controller.store.GetByStatus(entities.UserStatus(status))
	} else {
		result, err = controller.store.GetAll()
	}
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": result, "count": len(result)})
}

func (controller *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (controller *UsersController) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	result, err := controller.store.Search(query)
	if err != nil {
		respondInternalError(c, err, "search users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": result, "count": len(result)})
}

func (controller *UsersController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid user payload: "+err.Error())
		return
	}

	user, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	if input.Email != "" {
		user.Email = input.Email
	}
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Address = input.Address

	if err := controller.store.Save(user); err != nil {
		respondInternalError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword updates the password of the account after verifying the
// old one.
func (controller *UsersController) ChangePassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "old_password and new_password are required")
		return
	}

	if err := controller.service.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "user")
		case errors.Is(err, auth.ErrInvalidPassword):
			respondError(c, http.StatusUnauthorized, "old password is incorrect")
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "change password")
		}
		return
	}
	respondSuccess(c, "password changed")
}

// ForgotPassword issues a reset token and queues its delivery. The
// response is identical whether or not the email matches an account.
func (controller *UsersController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email is required")
		return
	}

	token, user, err := controller.service.RequestPasswordReset(req.Email)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		respondInternalError(c, err, "forgot password")
		return
	}

	if err == nil && controller.taskClient != nil {
		ttlMinutes := int(controller.service.ResetTokenTTL().Minutes())
		msg := mail.PasswordResetMessage(user.Email, token, ttlMinutes)
		_, _ = controller.taskClient.Add(tasks.NewSendEmailTask(msg)).Save()
	}

	respondSuccess(c, "if the email is registered, a reset code has been sent")
}

// ResetPassword consumes a reset token and sets a new password.
func (controller *UsersController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "token and new_password are required")
		return
	}

	if err := controller.service.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrResetTokenInvalid), errors.Is(err, auth.ErrResetTokenExpired):
			respondBadRequest(c, err.Error())
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "reset password")
		}
		return
	}
	respondSuccess(c, "password reset")
}

// ActivateUser re-enables a deactivated account.
func (controller *UsersController) ActivateUser(c *gin.Context) {
	controller.setStatus(c, entities.UserStatusActivated)
}

// DeactivateUser blocks the account from logging in.
func (controller *UsersController) DeactivateUser(c *gin.Context) {
	controller.setStatus(c, entities.UserStatusDeactivated)
}

func (controller *UsersController) setStatus(c *gin.Context, status entities.UserStatus) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.SetUserStatus(id, status); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "set user status")
		return
	}
	respondSuccess(c, "user status updated")
}

func (controller *UsersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := controller.store.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	if err := controller.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted")
}

func (controller *UsersController) GetUserStats(c *gin.Context) {
	total, err := controller.store.Count()
	if err != nil {
		respondInternalError(c, err, "user stats")
		return
	}

	activated, err := controller.store.CountByStatus(entities.UserStatusActivated)
	if err != nil {
		respondInternalError(c, err, "user stats")
		return
	}
	deactivated, err := controller.store.CountByStatus(entities.UserStatusDeactivated)
	if err != nil {
		respondInternalError(c, err, "user stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users": total,
		"activated":   activated,
		"deactivated": deactivated,
	})
}
