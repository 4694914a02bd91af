package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Medication is a single entry in a treatment plan.
type Medication struct {
	Name         string   `json:"name" example:"Benzoyl Peroxide 2.5%"`
	Type         string   `json:"type" example:"topical"`
	Dosage       string   `json:"dosage" example:"Apply thin layer"`
	Frequency    string   `json:"frequency" example:"Once daily at night"`
	Duration     string   `json:"duration" example:"8 weeks"`
	Instructions string   `json:"instructions" example:"Start every other day, increase to daily."`
	Warnings     []string `json:"warnings,omitempty" example:"May bleach fabrics"`
}

// Prescription represents a generated treatment plan
// @Description Treatment plan generated for a diagnosis
type Prescription struct {
	gorm.Model
	PrescriptionID           string                          `json:"prescription_id" gorm:"column:prescription_id;type:varchar(8);uniqueIndex" example:"f9e8d7c6"`
	DiagnosisID              string                          `json:"diagnosis_id" gorm:"column:diagnosis_id;type:varchar(8);index"`
	UserID                   string                          `json:"user_id" gorm:"column:user_id;type:varchar(36);index"`
	Severity                 string                          `json:"severity" gorm:"column:severity;type:varchar(16)" example:"moderate"`
	Medications              datatypes.JSONSlice[Medication] `json:"medications" gorm:"column:medications;type:json"`
	LifestyleRecommendations datatypes.JSONSlice[string]     `json:"lifestyle_recommendations" gorm:"column:lifestyle_recommendations;type:json"`
	FollowUpInstructions     string                          `json:"follow_up_instructions" gorm:"column:follow_up_instructions;type:text" example:"Follow up in 6-8 weeks. Contact if severe irritation."`
	Reasoning                string                          `json:"reasoning" gorm:"column:reasoning;type:text"`
	Status                   string                          `json:"status" gorm:"column:status;type:varchar(32);default:generated" example:"generated"`
}
