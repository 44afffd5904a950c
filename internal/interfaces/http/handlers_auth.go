package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/auth"
	"github.com/fnutaifi/custody-sheets/internal/models"
	"github.com/fnutaifi/custody-sheets/internal/repository"
	"github.com/fnutaifi/custody-sheets/pkg/utils"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the signed token and the account it belongs to
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegister handles POST /api/auth/register. New accounts get the
// Employee role; a duplicate email is a conflict.
func (s *Server) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "البريد الإلكتروني غير صالح"})
		return
	}

	hash, err := auth.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء التسجيل"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleEmployee,
	}
	if err := s.users.Create(user); err != nil {
		if err == repository.ErrEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "اسم المستخدم مسجل مسبقاً"})
			return
		}
		s.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء التسجيل"})
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء التسجيل"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// handleLogin handles POST /api/auth/login. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		s.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء تسجيل الدخول"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "اسم المستخدم أو كلمة المرور غير صحيحة"})
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء تسجيل الدخول"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}
