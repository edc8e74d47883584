package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robin246j/account-service/internal/domain"
	"github.com/robin246j/account-service/internal/log"
	"github.com/robin246j/account-service/internal/metrics"
	"github.com/robin246j/account-service/internal/queue"
	"github.com/robin246j/account-service/internal/repo"
	"github.com/robin246j/account-service/internal/service"
)

// Pinger is what Healthz needs from the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Accounts        *service.Account
	Verify          *service.Verification
	Store           Pinger
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
	Exchange        string
}

func NewHandler(acc *service.Account, ver *service.Verification, store Pinger,
	rds *repo.Redis, rlPerMin int, pub queue.Publisher, exchange string) *Handler {
	return &Handler{
		Accounts:        acc,
		Verify:          ver,
		Store:           store,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
		Exchange:        exchange,
	}
}

type registerReq struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Token       string `json:"token"`
}

// Register godoc
// @Summary Register user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Username:    in.Username,
		Token:       in.Token,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	go h.publish(requestID(c), "user.registered",
		queue.UserRegistered{UserID: id, Email: in.Email, Name: in.DisplayName})

	c.JSON(http.StatusCreated, gin.H{"userId": id.Hex()})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} domain.UserSummary
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	u, err := h.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	go h.publish(requestID(c), "user.loggedin", queue.UserLoggedIn{UserID: u.ID, Email: u.Email})

	c.JSON(http.StatusOK, u)
}

type updateProfileReq struct {
	Email string `json:"email" binding:"required"`
	domain.Profile
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body updateProfileReq true "profile"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/updateProfile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in updateProfileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if err := h.Accounts.UpdateProfile(c.Request.Context(), in.Email, in.Profile); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	go h.publish(requestID(c), "user.profile_updated", queue.ProfileUpdated{Email: in.Email})

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

type verifyEmailReq struct {
	Email    string `json:"email" binding:"required"`
	UserName string `json:"userName"`
}

// VerifyEmail godoc
// @Summary Issue an email verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyEmailReq true "target"
// @Success 200 {object} map[string]string
// @Router /auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var in verifyEmailReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if _, err := h.Verify.IssueCode(c.Request.Context(), in.Email, in.UserName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue code"})
		return
	}
	metrics.CodesIssued.Inc()

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type verifyCodeReq struct {
	Email            string `json:"email" binding:"required"`
	VerificationCode string `json:"verificationCode" binding:"required"`
}

// VerifyCode godoc
// @Summary Consume an email verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyCodeReq true "code"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/verify-code [post]
func (h *Handler) VerifyCode(c *gin.Context) {
	var in verifyCodeReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	err := h.Verify.ConsumeCode(c.Request.Context(), in.Email, in.VerificationCode)
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		metrics.CodesConsumed.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
		return
	case errors.Is(err, service.ErrCodeExpired):
		metrics.CodesConsumed.WithLabelValues("expired").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification code expired"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	metrics.CodesConsumed.WithLabelValues("ok").Inc()

	go h.publish(requestID(c), "user.code_consumed", queue.EmailCodeConsumed{Email: in.Email})

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// publish fires a domain event, best effort. The request ID is captured
// before the goroutine starts: gin reuses contexts once the handler returns.
func (h *Handler) publish(reqID, key string, event any) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, h.Exchange, key, event, reqID); err != nil {
		log.L().Error("event publish failed", zap.String("key", key), zap.Error(err))
	}
}
