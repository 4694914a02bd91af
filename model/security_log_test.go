package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityLogModel_Create(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	log := SecurityLog{
		EventType: "LOGIN_SUCCESS",
		UserID:    NewUserID(),
		Email:     "test@test.com",
		IP:        "192.168.1.1",
		Message:   "User logged in successfully",
	}

	err := db.Create(&log).Error
	assert.NoError(t, err)
	assert.NotZero(t, log.ID)
}

func TestSecurityLogModel_AllFields(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	log := SecurityLog{
		EventType: "TOKEN_REJECTED",
		UserID:    NewUserID(),
		Email:     "user@test.com",
		IP:        "10.0.0.1",
		UserAgent: "Mozilla/5.0",
		Location:  "Hyderabad/India",
		Endpoint:  "/api/v1/diagnosis/analyze",
		Message:   "Invalid or expired token",
		Details:   []byte(`{"reason":"signature mismatch"}`),
	}

	err := db.Create(&log).Error
	assert.NoError(t, err)

	var found SecurityLog
	db.First(&found, log.ID)
	assert.Equal(t, "TOKEN_REJECTED", found.EventType)
	assert.Equal(t, "user@test.com", found.Email)
	assert.Equal(t, "10.0.0.1", found.IP)
	assert.Equal(t, "Mozilla/5.0", found.UserAgent)
	assert.Equal(t, "Hyderabad/India", found.Location)
	assert.Equal(t, "/api/v1/diagnosis/analyze", found.Endpoint)
	assert.NotNil(t, found.Details)
}

func TestSecurityLogModel_ListByEventType(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	for i := 0; i < 3; i++ {
		db.Create(&SecurityLog{EventType: "DIAGNOSIS_CREATED", IP: "192.168.1.1"})
	}
	for i := 0; i < 2; i++ {
		db.Create(&SecurityLog{EventType: "LOGIN_FAILURE", IP: "192.168.1.2"})
	}

	var created []SecurityLog
	err := db.Where("event_type = ?", "DIAGNOSIS_CREATED").Find(&created).Error
	assert.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestSecurityLogModel_ListByUserID(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	userID := NewUserID()
	for i := 0; i < 5; i++ {
		db.Create(&SecurityLog{EventType: "ENDPOINT_CALL", UserID: userID, IP: "192.168.1.1"})
	}

	var userLogs []SecurityLog
	err := db.Where("user_id = ?", userID).Find(&userLogs).Error
	assert.NoError(t, err)
	assert.Len(t, userLogs, 5)
}

func TestSecurityLogModel_OptionalFields(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	log := SecurityLog{
		EventType: "RATE_LIMIT_EXCEEDED",
		IP:        "127.0.0.1",
	}
	err := db.Create(&log).Error
	assert.NoError(t, err)

	var found SecurityLog
	db.First(&found, log.ID)
	assert.Equal(t, "", found.UserID)
	assert.Equal(t, "", found.Email)
	assert.Equal(t, "", found.Location)
}

func TestSecurityLogModel_OrderByTimestamp(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	for _, event := range []string{"LOGIN_SUCCESS", "LOGOUT", "LOGIN_SUCCESS"} {
		db.Create(&SecurityLog{EventType: event, IP: "192.168.1.1"})
	}

	var logs []SecurityLog
	err := db.Order("created_at DESC").Find(&logs).Error
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(logs), 3)
	if len(logs) >= 2 {
		assert.True(t, logs[0].CreatedAt.After(logs[1].CreatedAt) || logs[0].CreatedAt.Equal(logs[1].CreatedAt))
	}
}

func TestSecurityLogModel_CountByEventType(t *testing.T) {
	db := setupTestDB(t, "securitylog", &SecurityLog{})

	for i := 0; i < 7; i++ {
		db.Create(&SecurityLog{EventType: "ACCOUNT_LOCKED", IP: "192.168.1.1"})
	}

	var count int64
	err := db.Model(&SecurityLog{}).Where("event_type = ?", "ACCOUNT_LOCKED").Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
