package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/acneai/backend/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess        SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure        SecurityEventType = "LOGIN_FAILURE"
	EventUserRegistered      SecurityEventType = "USER_REGISTERED"
	EventLogout              SecurityEventType = "LOGOUT"
	EventAccountLocked       SecurityEventType = "ACCOUNT_LOCKED"
	EventTokenRejected       SecurityEventType = "TOKEN_REJECTED"
	EventRateLimitExceeded   SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall        SecurityEventType = "ENDPOINT_CALL"
	EventDiagnosisCreated    SecurityEventType = "DIAGNOSIS_CREATED"
	EventPrescriptionCreated SecurityEventType = "PRESCRIPTION_CREATED"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	Endpoint  string
	Message   string
	Details   map[string]interface{}
}

var securityLogger *log.Logger
var securityDB *gorm.DB

// SetSecurityLoggerDB sets a gorm DB instance used by the security logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDB = db
}

func init() {
	securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent logs a security event to stdout and, when a DB has been
// attached, persists it to the security_logs table. Persistence is best-effort
// and never fails the calling operation.
func LogSecurityEvent(event SecurityEvent) {
	if event.Email == "" && event.UserID != "" {
		event.Email = GetUserEmail(securityDB, event.UserID)
	}

	msg := fmt.Sprintf("Event=%s UserID=%s Email=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.UserID),
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		// Don't log the Details map directly to avoid injection
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	securityLogger.Println(msg)

	if securityDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	// Resolve city/country for the IP (best-effort, local DB then cache)
	loc := GetIPLocation(event.IP)
	var location string
	switch {
	case loc.City != "" && loc.Country != "":
		location = fmt.Sprintf("%s/%s", loc.City, loc.Country)
	case loc.Country != "":
		location = loc.Country
	case loc.City != "":
		location = loc.City
	}

	entry := model.SecurityLog{
		EventType: string(event.EventType),
		UserID:    event.UserID,
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		Location:  sanitizeLogValue(location),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Endpoint:  sanitizeLogValue(event.Endpoint),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}

	if err := securityDB.Create(&entry).Error; err != nil {
		securityLogger.Printf("Failed to persist security event: %v", err)
	}
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(userID, email, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

// LogUserRegistered logs a new account registration
func LogUserRegistered(userID, email, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUserRegistered,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "New user registered",
	})
}

// LogLogout logs a logout event
func LogLogout(userID, email, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogAccountLocked logs when an account is locked
func LogAccountLocked(userID, email, ip, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventAccountLocked,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Account locked: %s", reason),
	})
}

// LogTokenRejected logs a request whose bearer token failed validation
func LogTokenRejected(ip, userAgent, endpoint, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventTokenRejected,
		IP:        ip,
		UserAgent: userAgent,
		Endpoint:  endpoint,
		Message:   fmt.Sprintf("Token rejected: %s", reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(email, ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		Email:     email,
		IP:        ip,
		Endpoint:  endpoint,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// LogDiagnosisCreated records a completed image analysis
func LogDiagnosisCreated(userID, ip, diagnosisID, severity string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventDiagnosisCreated,
		UserID:    userID,
		IP:        ip,
		Message:   fmt.Sprintf("Diagnosis %s created with severity %s", diagnosisID, severity),
	})
}

// LogPrescriptionCreated records a generated treatment plan
func LogPrescriptionCreated(userID, ip, prescriptionID, diagnosisID string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventPrescriptionCreated,
		UserID:    userID,
		IP:        ip,
		Message:   fmt.Sprintf("Prescription %s generated for diagnosis %s", prescriptionID, diagnosisID),
	})
}

// GetSecurityLoggerForTest returns the current security logger for testing purposes
func GetSecurityLoggerForTest() *log.Logger {
	return securityLogger
}

// SetSecurityLoggerForTest sets a custom logger for testing purposes
func SetSecurityLoggerForTest(logger *log.Logger) {
	securityLogger = logger
}
