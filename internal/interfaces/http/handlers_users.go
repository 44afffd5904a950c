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

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body of PUT /api/users/:id. An empty password
// preserves the stored hash.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password"`
}

// UpdateRoleRequest is the body of PUT /api/users/:id/role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// handleListUsers handles GET /api/users (lead only), newest first.
func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List()
	if err != nil {
		s.logger.Error("Failed to fetch users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء جلب المستخدمين"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// handleCreateUser handles POST /api/users (lead only). Role defaults to
// Employee when omitted.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "البريد الإلكتروني غير صالح"})
		return
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "صلاحية غير صالحة"})
		return
	}

	hash, err := auth.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء إضافة المستخدم"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
	}
	if err := s.users.Create(user); err != nil {
		if err == repository.ErrEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "اسم المستخدم مسجل مسبقاً"})
			return
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء إضافة المستخدم"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// handleUpdateUser handles PUT /api/users/:id (lead only).
func (s *Server) handleUpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "صلاحية غير صالحة"})
		return
	}

	var newHash string
	if req.Password != "" {
		var err error
		newHash, err = auth.HashPassword(req.Password, s.config.BcryptCost)
		if err != nil {
			s.logger.Error("Failed to update user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء تعديل المستخدم"})
			return
		}
	}

	if err := s.users.Update(c.Param("id"), req.Name, req.Email, req.Role, newHash); err != nil {
		if err == repository.ErrEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "اسم المستخدم مسجل مسبقاً"})
			return
		}
		s.logger.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء تعديل المستخدم"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "تم التعديل بنجاح"})
}

// handleUpdateUserRole handles PUT /api/users/:id/role (lead only).
func (s *Server) handleUpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "صلاحية غير صالحة"})
		return
	}

	if err := s.users.UpdateRole(c.Param("id"), req.Role); err != nil {
		if err == repository.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "المستخدم غير موجود"})
			return
		}
		s.logger.Error("Failed to update user role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء التحديث"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "تم تحديث الصلاحية بنجاح"})
}

// handleDeleteUser handles DELETE /api/users/:id (lead only). A caller
// cannot delete their own account.
func (s *Server) handleDeleteUser(c *gin.Context) {
	id := c.Param("id")

	caller, _ := auth.IdentityFromContext(c)
	if id == caller.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "لا يمكنك حذف حسابك الخاص"})
		return
	}

	if err := s.users.Delete(id); err != nil {
		if err == repository.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "المستخدم غير موجود"})
			return
		}
		s.logger.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء الحذف"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "تم حذف المستخدم بنجاح"})
}
