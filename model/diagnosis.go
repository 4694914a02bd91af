package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LesionCounts holds estimated counts per lesion type.
type LesionCounts struct {
	Comedones int `json:"comedones" example:"15"`
	Papules   int `json:"papules" example:"10"`
	Pustules  int `json:"pustules" example:"5"`
	Nodules   int `json:"nodules" example:"0"`
	Cysts     int `json:"cysts" example:"0"`
}

// Total returns the summed lesion count across all types.
func (lc LesionCounts) Total() int {
	return lc.Comedones + lc.Papules + lc.Pustules + lc.Nodules + lc.Cysts
}

// SeverityScores is the per-label probability distribution from the classifier.
type SeverityScores struct {
	Clear      float64 `json:"clear" example:"0.05"`
	Mild       float64 `json:"mild" example:"0.15"`
	Moderate   float64 `json:"moderate" example:"0.4"`
	Severe     float64 `json:"severe" example:"0.3"`
	VerySevere float64 `json:"very_severe" example:"0.1"`
}

// ClinicalMetadata is the optional patient-supplied context attached to an analysis.
type ClinicalMetadata struct {
	Age                int      `json:"age" example:"24"`
	SkinType           string   `json:"skin_type" example:"oily"`
	AcneDurationMonths int      `json:"acne_duration_months" example:"6"`
	PreviousTreatments []string `json:"previous_treatments"`
	Allergies          []string `json:"allergies"`
}

// Diagnosis represents one analyzed photo upload
// @Description Diagnosis result for an uploaded image
type Diagnosis struct {
	gorm.Model
	DiagnosisID string `json:"diagnosis_id" gorm:"column:diagnosis_id;type:varchar(8);uniqueIndex" example:"a1b2c3d4"`
	UserID      string `json:"user_id" gorm:"column:user_id;type:varchar(36);index"`
	Severity    string `json:"severity" gorm:"column:severity;type:varchar(16)" example:"moderate"`
	// Confidence is stored as an integer percent and exposed as a fraction
	// through DiagnosisResponse.
	Confidence         int                                  `json:"-" gorm:"column:confidence"`
	SeverityScores     datatypes.JSONType[SeverityScores]   `json:"severity_scores" gorm:"column:severity_scores;type:json"`
	LesionCounts       datatypes.JSONType[LesionCounts]     `json:"lesion_counts" gorm:"column:lesion_counts;type:json"`
	AffectedAreas      datatypes.JSONSlice[string]          `json:"affected_areas" gorm:"column:affected_areas;type:json"`
	ClinicalNotes      string                               `json:"clinical_notes" gorm:"column:clinical_notes;type:text"`
	RecommendedUrgency string                               `json:"recommended_urgency" gorm:"column:recommended_urgency;type:varchar(16)" example:"soon"`
	ImageURL           string                               `json:"image_url" gorm:"column:image_url;type:varchar(500)" example:"/uploads/0d9f6c1e-7a2b-4f3c-8d1e-2b3c4d5e6f70.jpg"`
	ClinicalMetadata   datatypes.JSONType[ClinicalMetadata] `json:"metadata" gorm:"column:clinical_metadata;type:json"`
}

// DiagnosisResponse is a diagnosis with the stored percent turned back into a fraction
// @Description Diagnosis response with fractional confidence
type DiagnosisResponse struct {
	Diagnosis
	Confidence float64 `json:"confidence" example:"0.85"`
}

// AsResponse converts the stored integer-percent confidence to a fraction.
func (d Diagnosis) AsResponse() DiagnosisResponse {
	return DiagnosisResponse{
		Diagnosis:  d,
		Confidence: float64(d.Confidence) / 100.0,
	}
}
