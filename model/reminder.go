package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reminder represents a medication reminder
// @Description Scheduled medication reminder for a user
type Reminder struct {
	gorm.Model
	ReminderID        string                      `json:"reminder_id" gorm:"column:reminder_id;type:varchar(8);uniqueIndex" example:"1a2b3c4d"`
	UserID            string                      `json:"user_id" gorm:"column:user_id;type:varchar(36);index"`
	PrescriptionID    string                      `json:"prescription_id,omitempty" gorm:"column:prescription_id;type:varchar(8);index"`
	Title             string                      `json:"title" gorm:"column:title" example:"Medication: Benzoyl Peroxide 5%"`
	Message           string                      `json:"message" gorm:"column:message;type:text" example:"Time to apply/take Benzoyl Peroxide 5%. Apply to affected areas after cleansing."`
	MessageTelugu     string                      `json:"message_telugu,omitempty" gorm:"column:message_telugu;type:text"`
	Frequency         string                      `json:"frequency" gorm:"column:frequency;type:varchar(32)" example:"twice_daily"`
	Times             datatypes.JSONSlice[string] `json:"times" gorm:"column:times;type:json"`
	Status            string                      `json:"status" gorm:"column:status;type:varchar(32);default:active" example:"active"`
	TotalAcknowledged int                         `json:"total_acknowledged" gorm:"column:total_acknowledged;default:0" example:"3"`
}
