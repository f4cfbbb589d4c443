package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/GiorgiUbiria/expense_tracker/internal/rates"
	"github.com/GiorgiUbiria/expense_tracker/internal/seed"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const forgotPasswordReply = "If this email exists, a reset link will be sent."

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ChangeEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PreferencesRequest struct {
	Currency *string `json:"currency"`
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Register godoc
// @Summary      Create an account
// @Description  Registers a user, seeds the sample transactions and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account details"
// @Success      201   {object}  AuthResponse
// @Failure      400   {object}  httputil.ErrorResponse
// @Failure      500   {object}  httputil.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !emailPattern.MatchString(email) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		httputil.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	ctx := r.Context()
	if _, err := h.store.UserByEmail(ctx, email); err == nil {
		httputil.WriteError(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.serverError(w, r, err, "Server error during registration")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serverError(w, r, err, "Server error during registration")
		return
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hash,
		Currency: models.DefaultCurrency,
		Language: models.DefaultLanguage,
		Theme:    models.DefaultTheme,
	}
	err = h.store.CreateUserWithTransactions(ctx, user, seed.SampleTransactions(user.ID))
	if errors.Is(err, store.ErrEmailTaken) {
		httputil.WriteError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Server error during registration")
		return
	}

	h.writeSession(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  httputil.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.UserByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Server error during login")
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

func (h *Handlers) writeSession(w http.ResponseWriter, r *http.Request, code int, user *models.User) {
	token, err := h.tokens.Issue(user.ID)
	if errors.Is(err, auth.ErrNoSecret) {
		logger.Log.Error("jwt secret not configured")
		httputil.WriteError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error creating token")
		return
	}

	httputil.WriteJSON(w, code, AuthResponse{Token: token, User: userView(user)})
}

// Me godoc
// @Summary   Current user profile
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ProfileView
// @Failure   401  {object}  httputil.ErrorResponse
// @Router    /api/auth/me [get]
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profileView(user))
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := h.store.UserByID(r.Context(), principal(r).ID)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err, "Error finding user")
		return nil, false
	}
	return user, true
}

// UpdateProfile godoc
// @Summary   Update name and username
// @Tags      auth
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      ProfileRequest  true  "Fields to change"
// @Success   200   {object}  ProfileView
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/auth/profile [put]
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	me := principal(r).ID
	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httputil.WriteError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		fields["name"] = name
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			fields["username"] = nil
		} else {
			other, err := h.store.UserByUsername(ctx, username)
			if err == nil && other.ID != me {
				httputil.WriteError(w, http.StatusBadRequest, "Username already taken")
				return
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				h.serverError(w, r, err, "Error updating profile")
				return
			}
			fields["username"] = username
		}
	}

	if len(fields) > 0 {
		err := h.store.UpdateUser(ctx, me, fields)
		if errors.Is(err, store.ErrUsernameTaken) {
			httputil.WriteError(w, http.StatusBadRequest, "Username already taken")
			return
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.serverError(w, r, err, "Error updating profile")
			return
		}
	}

	h.Me(w, r)
}

// ChangePassword godoc
// @Summary   Change password
// @Tags      auth
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      ChangePasswordRequest  true  "Current and new password"
// @Success   200   {object}  httputil.MessageResponse
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/auth/password [put]
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		httputil.WriteError(w, http.StatusBadRequest, "New password must be at least 6 characters long")
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		httputil.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	if !h.setPassword(w, r, user.ID, req.NewPassword) {
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Password updated successfully")
}

// setPassword stores a new hash and clears any pending reset token.
func (h *Handlers) setPassword(w http.ResponseWriter, r *http.Request, id uuid.UUID, password string) bool {
	hash, err := auth.HashPassword(password)
	if err != nil {
		h.serverError(w, r, err, "Error updating password")
		return false
	}
	err = h.store.UpdateUser(r.Context(), id, map[string]any{
		"password":               hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	})
	if err != nil {
		h.serverError(w, r, err, "Error updating password")
		return false
	}
	return true
}

// ChangeEmail godoc
// @Summary   Change email address
// @Tags      auth
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      ChangeEmailRequest  true  "New email and current password"
// @Success   200   {object}  UserMessageResponse
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/auth/email [put]
func (h *Handlers) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req ChangeEmailRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !emailPattern.MatchString(email) {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		httputil.WriteError(w, http.StatusBadRequest, "Password is incorrect")
		return
	}

	if email != user.Email {
		err := h.store.UpdateUser(r.Context(), user.ID, map[string]any{"email": email})
		if errors.Is(err, store.ErrEmailTaken) {
			httputil.WriteError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		if err != nil {
			h.serverError(w, r, err, "Error updating email")
			return
		}
		user.Email = email
	}

	httputil.WriteJSON(w, http.StatusOK, UserMessageResponse{Message: "Email updated successfully", User: profileView(user)})
}

// UpdatePreferences godoc
// @Summary   Update display preferences
// @Tags      auth
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      PreferencesRequest  true  "currency, language, theme"
// @Success   200   {object}  UserMessageResponse
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/auth/preferences [put]
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req PreferencesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Currency != nil {
		code, err := rates.NormalizeCode(*req.Currency)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid currency code")
			return
		}
		fields["currency"] = code
	}
	if req.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*req.Language))
		if len(lang) < 2 || len(lang) > 8 {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid language")
			return
		}
		fields["language"] = lang
	}
	if req.Theme != nil {
		theme := strings.ToLower(strings.TrimSpace(*req.Theme))
		if theme != "light" && theme != "dark" {
			httputil.WriteError(w, http.StatusBadRequest, "Theme must be light or dark")
			return
		}
		fields["theme"] = theme
	}

	if len(fields) > 0 {
		if err := h.store.UpdateUser(r.Context(), principal(r).ID, fields); err != nil && !errors.Is(err, store.ErrNotFound) {
			h.serverError(w, r, err, "Error updating preferences")
			return
		}
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UserMessageResponse{Message: "Preferences updated successfully", User: profileView(user)})
}

// ForgotPassword godoc
// @Summary      Request a password reset link
// @Description  Always answers with the same message whether or not the email is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ForgotPasswordRequest  true  "Account email"
// @Success      200   {object}  httputil.MessageResponse
// @Router       /api/auth/forgot-password [post]
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeResetError(w, "Invalid request body")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		writeResetError(w, "Email is required")
		return
	}

	if err := h.issueResetToken(r, email); err != nil {
		logger.Log.Error("password reset not sent", zap.Error(err))
	}
	httputil.WriteMessage(w, http.StatusOK, forgotPasswordReply)
}

func (h *Handlers) issueResetToken(r *http.Request, email string) error {
	ctx := r.Context()
	user, err := h.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	expires := h.now().Add(h.cfg.Reset.TTL).UTC()
	err = h.store.UpdateUser(ctx, user.ID, map[string]any{
		"reset_password_token":   hash,
		"reset_password_expires": expires,
	})
	if err != nil {
		return err
	}

	link := strings.TrimRight(h.cfg.Reset.URL, "/") + "/" + token
	return h.mailer.SendPasswordReset(ctx, user.Email, link)
}

// ResetPassword godoc
// @Summary   Set a new password with a reset token
// @Tags      auth
// @Accept    json
// @Produce   json
// @Param     body  body      ResetPasswordRequest  true  "Reset token and new password"
// @Success   200   {object}  httputil.MessageResponse
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/auth/reset-password [post]
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeResetError(w, "Invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		writeResetError(w, "Token and password are required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeResetError(w, "Password must be at least 6 characters long")
		return
	}

	user, err := h.store.UserByResetToken(r.Context(), auth.HashResetToken(req.Token))
	if errors.Is(err, store.ErrNotFound) {
		writeResetError(w, "Invalid or expired token")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error resetting password")
		return
	}
	if user.ResetPasswordExpires == nil || !user.ResetPasswordExpires.After(h.now()) {
		writeResetError(w, "Invalid or expired token")
		return
	}

	if !h.setPassword(w, r, user.ID, req.Password) {
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Password has been reset.")
}

// writeResetError sets error as well as message; the reset pages read error.
func writeResetError(w http.ResponseWriter, msg string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Message: msg, Error: msg})
}
