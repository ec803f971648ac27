package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/med-repair-dash/backend/internal/auth"
	"github.com/med-repair-dash/backend/internal/db"
	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/models"
)

type signupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone"`
	Role         string `json:"role" validate:"required,oneof=hospital admin technician"`
	HospitalName string `json:"hospital_name"`
}

// @Summary Register an account
// @Description Creates a profile. Technicians start unvalidated and must be approved by an admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "signup"
// @Success 201 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}

	role := models.Role(req.Role)
	profile := models.Profile{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		// Hospitals and admins are usable immediately; technicians wait
		// for admin validation.
		IsValidated: role != models.RoleTechnician,
	}
	if req.Phone != "" {
		profile.Phone = &req.Phone
	}
	if role == models.RoleHospital && req.HospitalName != "" {
		profile.HospitalName = &req.HospitalName
	}

	if err := h.Store.CreateProfile(c.Request.Context(), &profile); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeError(c, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
			return
		}
		h.writeDomainError(c, err)
		return
	}

	token, err := h.Tokens.Generate(profile.ID, profile.Role)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid body", nil)
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	profile, err := h.Store.GetProfileByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}
		h.writeDomainError(c, err)
		return
	}
	if !auth.CheckPassword(req.Password, profile.PasswordHash) {
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	token, err := h.Tokens.Generate(profile.ID, profile.Role)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

func (h *Handler) Me(c *gin.Context) {
	v, _ := c.Get(middleware.ProfileKey)
	profile, ok := v.(models.Profile)
	if !ok {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "No session", nil)
		return
	}
	c.JSON(http.StatusOK, profile)
}
