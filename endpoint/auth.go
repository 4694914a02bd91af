package endpoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/middleware"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrEmailAlreadyRegistered rejects a registration whose email is taken.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrAccountLocked rejects logins during an active lockout window.
	ErrAccountLocked = errors.New("account temporarily locked")
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// validSkinTypes are the profile values the classifier understands.
var validSkinTypes = []string{"normal", "dry", "oily", "combination", "sensitive"}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email" example:"patient@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"correct-horse-battery"`
	FullName    string `json:"full_name" binding:"required" example:"Jane Doe"`
	PhoneNumber string `json:"phone_number" example:"081234567890"`
	DateOfBirth string `json:"date_of_birth" example:"1998-04-12"`
	Gender      string `json:"gender" example:"female"`
	SkinType    string `json:"skin_type" example:"oily"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"patient@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

type updateProfileRequest struct {
	FullName    *string                `json:"full_name"`
	PhoneNumber *string                `json:"phone_number"`
	DateOfBirth *string                `json:"date_of_birth"`
	Gender      *string                `json:"gender"`
	SkinType    *string                `json:"skin_type"`
	Preferences map[string]interface{} `json:"preferences"`
}

// TokenResponse is the payload returned by register and login.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type" example:"bearer"`
	User        model.User `json:"user"`
}

// clientInfo captures the request attribution recorded with security events.
type clientInfo struct {
	IP    string
	Agent string
}

func getClientInfo(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user, open a session and return an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Registration data"
// @Success 201 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /auth/register [post]
func Register(c *gin.Context) {
	req := registerRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid registration payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !ensureEmailAvailable(c, db, email) {
		return
	}
	skinType, ok := normalizeSkinType(c, req.SkinType)
	if !ok {
		return
	}
	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}
	user := model.User{
		UserID:      model.NewUserID(),
		Email:       email,
		Password:    hashed,
		FullName:    util.NormalizeName(req.FullName),
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		SkinType:    skinType,
		Preferences: datatypes.JSONMap{},
		IsActive:    true,
	}
	if user.SkinType == "" {
		user.SkinType = "normal"
	}
	if err := db.Create(&user).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create user", Err: err})
		return
	}
	client := getClientInfo(c)
	util.LogUserRegistered(user.UserID, user.Email, client.IP, client.Agent)
	token, ok := issueSession(c, db, user, client)
	if !ok {
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "User registered", Data: token})
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and return a fresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Login credentials"
// @Success 200 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /auth/login [post]
func Login(c *gin.Context) {
	req := loginRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid login payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	client := getClientInfo(c)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, ok := loadUserByEmail(c, db, email, client)
	if !ok {
		return
	}
	if !ensureNotLocked(c, &user, client) {
		return
	}
	if !util.VerifyPassword(req.Password, user.Password) {
		registerFailedLogin(db, &user, client)
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Incorrect email or password", Err: ErrInvalidCredentials})
		return
	}
	if !user.IsActive {
		util.CallUserError(c, util.APIErrorParams{Msg: "Inactive user"})
		return
	}
	resetFailedLogins(db, &user)
	util.LogLoginSuccess(user.UserID, user.Email, client.IP, client.Agent)
	token, ok := issueSession(c, db, user, client)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Login successful", Data: token})
}

// Me godoc
// @Summary Current profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Router /auth/me [get]
func Me(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	user, ok := loadCurrentUser(c, db)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile retrieved", Data: user})
}

// UpdateMe godoc
// @Summary Update profile
// @Description Update only the profile fields present in the payload
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body updateProfileRequest true "Fields to update"
// @Success 200 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /auth/me [put]
func UpdateMe(c *gin.Context) {
	req := updateProfileRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid profile payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	user, ok := loadCurrentUser(c, db)
	if !ok {
		return
	}
	if req.SkinType != nil {
		skin, ok := normalizeSkinType(c, *req.SkinType)
		if !ok {
			return
		}
		req.SkinType = &skin
	}
	if !applyProfileUpdates(&user, req) {
		util.CallSuccessOK(c, util.APISuccessParams{Msg: "Nothing to update", Data: user})
		return
	}
	if err := db.Save(&user).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update profile", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Profile updated", Data: user})
}

// Logout godoc
// @Summary Log out
// @Description Revoke the presented session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authorization token required"})
		return
	}
	if err := db.Where("session_token = ?", token).Delete(&model.Session{}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to revoke session", Err: err})
		return
	}
	dropSessionMirror(userID, token)
	client := getClientInfo(c)
	util.LogLogout(userID, "", client.IP, client.Agent)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful", Data: map[string]interface{}{}})
}

// ValidateToken godoc
// @Summary Validate token
// @Description Report whether the presented token maps to a live session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Router /auth/validate [get]
func ValidateToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Token is valid",
		Data: map[string]interface{}{"valid": true, "user_id": userID},
	})
}

func ensureEmailAvailable(c *gin.Context, db *gorm.DB, email string) bool {
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check email", Err: err})
		return false
	}
	if count > 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Email already registered", Err: ErrEmailAlreadyRegistered})
		return false
	}
	return true
}

func loadUserByEmail(c *gin.Context, db *gorm.DB, email string, client clientInfo) (model.User, bool) {
	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogLoginFailure(email, client.IP, client.Agent, "unknown email")
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Incorrect email or password", Err: ErrInvalidCredentials})
		return model.User{}, false
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch user", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureNotLocked(c *gin.Context, user *model.User, client clientInfo) bool {
	if !user.IsLocked(time.Now()) {
		return true
	}
	util.LogLoginFailure(user.Email, client.IP, client.Agent, "account locked")
	msg := fmt.Sprintf("Account is locked until %s due to repeated failed login attempts", user.LockedUntil.Format(time.RFC3339))
	util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: ErrAccountLocked})
	return false
}

// registerFailedLogin bumps the failure counter and locks the account once
// it reaches the threshold. A success resets the counter, so a stale count
// past the threshold re-locks on the next failure.
func registerFailedLogin(db *gorm.DB, user *model.User, client clientInfo) {
	user.FailedAttempts++
	updates := map[string]interface{}{"failed_attempts": user.FailedAttempts}
	if user.FailedAttempts >= maxFailedLogins {
		lockedUntil := time.Now().Add(lockoutDuration)
		user.LockedUntil = &lockedUntil
		updates["locked_until"] = lockedUntil
		util.LogAccountLocked(user.UserID, user.Email, client.IP, fmt.Sprintf("%d consecutive failed logins", user.FailedAttempts))
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		log.Printf("failed to record login failure for %s: %v", user.UserID, err)
	}
	util.LogLoginFailure(user.Email, client.IP, client.Agent, "wrong password")
}

func resetFailedLogins(db *gorm.DB, user *model.User) {
	if user.FailedAttempts == 0 && user.LockedUntil == nil {
		return
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	if err := db.Model(user).Updates(map[string]interface{}{"failed_attempts": 0, "locked_until": nil}).Error; err != nil {
		log.Printf("failed to reset login failures for %s: %v", user.UserID, err)
	}
}

// normalizeSkinType lowercases the value and rejects anything outside the
// known set. An empty value passes through for the caller to default.
func normalizeSkinType(c *gin.Context, raw string) (string, bool) {
	if raw == "" {
		return "", true
	}
	skin := strings.ToLower(strings.TrimSpace(raw))
	if !util.Contains(skin, validSkinTypes) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid skin type"})
		return "", false
	}
	return skin, true
}

// applyProfileUpdates copies the non-nil request fields onto the user and
// reports whether anything changed.
func applyProfileUpdates(user *model.User, req updateProfileRequest) bool {
	changed := false
	if req.FullName != nil {
		user.FullName = util.NormalizeName(*req.FullName)
		changed = true
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
		changed = true
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = *req.DateOfBirth
		changed = true
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
		changed = true
	}
	if req.SkinType != nil {
		user.SkinType = *req.SkinType
		changed = true
	}
	if req.Preferences != nil {
		user.Preferences = datatypes.JSONMap(req.Preferences)
		changed = true
	}
	return changed
}

// issueSession signs a token, records the session row and mirrors it into
// Redis. Answers the HTTP error itself on failure.
func issueSession(c *gin.Context, db *gorm.DB, user model.User, client clientInfo) (TokenResponse, bool) {
	cfg := config.LoadConfig()
	ttl := time.Duration(cfg.TokenExpireMinutes) * time.Minute
	expiresAt := time.Now().Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(util.GetJWTSecretByte())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to sign token", Err: err})
		return TokenResponse{}, false
	}
	session := model.Session{
		UserID:       user.UserID,
		SessionToken: token,
		ExpiresAt:    expiresAt,
		ClientIP:     client.IP,
		Browser:      client.Agent,
	}
	if err := db.Create(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return TokenResponse{}, false
	}
	mirrorSession(user.UserID, token, ttl)
	return TokenResponse{AccessToken: token, TokenType: "bearer", User: user}, true
}

// mirrorSession copies the session into Redis so token checks can skip the
// database. Best-effort: without Redis every check falls through to the DB.
func mirrorSession(userID, token string, ttl time.Duration) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Set(context.Background(), util.SessionKey(token), userID, ttl).Err(); err != nil {
		return
	}
	_ = util.AddSessionToUserSet(userID, token)
}

func dropSessionMirror(userID, token string) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return
	}
	_ = rdb.Del(context.Background(), util.SessionKey(token)).Err()
	_ = util.RemoveSessionTokenFromUserSet(userID, token)
}
