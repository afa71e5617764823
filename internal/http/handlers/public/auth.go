package public

import (
	"errors"
	"time"

	"github.com/mixcampeao/api/internal/http/response"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the signup body.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a customer account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "dados de cadastro inválidos", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeConflict, "e-mail já cadastrado", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "falha ao criar conta", err)
		}
		return
	}

	response.Success(c, sessionPayload(user, token, expiresAt))
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "requisição inválida", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "e-mail ou senha incorretos", nil)
		case errors.Is(err, service.ErrUserBlocked):
			respondError(c, response.CodeForbidden, "conta bloqueada", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao autenticar", err)
		}
		return
	}

	response.Success(c, sessionPayload(user, token, expiresAt))
}

// Logout acknowledges the client dropping its token. Tokens are
// stateless, so there is nothing to revoke on the server.
func (h *Handler) Logout(c *gin.Context) {
	response.Success(c, nil)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetUser(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "usuário não encontrado", nil)
		default:
			respondError(c, response.CodeInternal, "falha ao carregar perfil", err)
		}
		return
	}

	response.Success(c, userPayload(user))
}

func sessionPayload(user *models.User, token string, expiresAt time.Time) gin.H {
	return gin.H{
		"user":       userPayload(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}
