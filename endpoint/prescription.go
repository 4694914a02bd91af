package endpoint

import (
	"errors"
	"time"

	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type generatePrescriptionRequest struct {
	DiagnosisID     string `json:"diagnosis_id" binding:"required" example:"a1b2c3d4"`
	AdditionalNotes string `json:"additional_notes" example:"Prefers gel formulations"`
}

type translatePrescriptionRequest struct {
	PrescriptionID string `json:"prescription_id" binding:"required" example:"f9e8d7c6"`
	TargetLanguage string `json:"target_language" example:"te"`
}

// GeneratePrescription godoc
// @Summary Generate a treatment plan
// @Description Build the rule-based plan for a diagnosis; repeated calls return the stored plan
// @Tags Prescription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body generatePrescriptionRequest true "Diagnosis reference"
// @Success 200 {object} util.APIResponse
// @Success 201 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /prescription/generate [post]
func GeneratePrescription(c *gin.Context) {
	req := generatePrescriptionRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid prescription payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var diagnosis model.Diagnosis
	if err := db.Where("diagnosis_id = ? AND user_id = ?", req.DiagnosisID, userID).First(&diagnosis).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Diagnosis not found", Err: err})
		return
	}

	// One prescription per diagnosis. Regenerating returns the stored plan.
	var existing model.Prescription
	err := db.Where("diagnosis_id = ? AND user_id = ?", diagnosis.DiagnosisID, userID).First(&existing).Error
	if err == nil {
		util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription already exists", Data: existing})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check existing prescription", Err: err})
		return
	}

	plan := ml.GeneratePlan(diagnosis.Severity, diagnosis.LesionCounts.Data(), diagnosis.ClinicalMetadata.Data(), req.AdditionalNotes)
	prescription := model.Prescription{
		DiagnosisID:              diagnosis.DiagnosisID,
		UserID:                   userID,
		Severity:                 diagnosis.Severity,
		Medications:              datatypes.NewJSONSlice(plan.Medications),
		LifestyleRecommendations: datatypes.NewJSONSlice(plan.LifestyleRecommendations),
		FollowUpInstructions:     plan.FollowUpInstructions,
		Reasoning:                plan.Reasoning,
		Status:                   "generated",
	}
	if err := createWithPublicID(db, &prescription, func(id string) { prescription.PrescriptionID = id }); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store prescription", Err: err})
		return
	}
	util.LogPrescriptionCreated(userID, c.ClientIP(), prescription.PrescriptionID, diagnosis.DiagnosisID)
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Prescription generated", Data: prescription})
}

// GetPrescription godoc
// @Summary Fetch one prescription
// @Tags Prescription
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prescription ID"
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Router /prescription/{id} [get]
func GetPrescription(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "prescription ID")
	if !ok {
		return
	}
	var prescription model.Prescription
	if err := db.Where("prescription_id = ? AND user_id = ?", id, userID).First(&prescription).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Prescription not found", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription retrieved", Data: prescription})
}

// ListPrescriptions godoc
// @Summary List the caller's prescriptions
// @Tags Prescription
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /prescription [get]
func ListPrescriptions(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := listParams(c)
	var total int64
	if err := db.Model(&model.Prescription{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count prescriptions", Err: err})
		return
	}
	var prescriptions []model.Prescription
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&prescriptions).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch prescriptions", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescriptions retrieved", Data: map[string]interface{}{
		"total":         total,
		"prescriptions": prescriptions,
	}})
}

// TranslatePrescription godoc
// @Summary Translate a prescription
// @Description Translate the stored plan; any target other than en takes the Telugu path
// @Tags Prescription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body translatePrescriptionRequest true "Prescription reference and target language"
// @Success 200 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Router /prescription/translate [post]
func TranslatePrescription(c *gin.Context) {
	req := translatePrescriptionRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid translation payload") {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "te"
	}
	var prescription model.Prescription
	if err := db.Where("prescription_id = ? AND user_id = ?", req.PrescriptionID, userID).First(&prescription).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Prescription not found", Err: err})
		return
	}
	content := ml.TranslatePrescription(
		[]model.Medication(prescription.Medications),
		[]string(prescription.LifestyleRecommendations),
		prescription.FollowUpInstructions,
		req.TargetLanguage,
	)
	originalLanguage := "te"
	if req.TargetLanguage == "te" {
		originalLanguage = "en"
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Prescription translated", Data: map[string]interface{}{
		"prescription_id":    prescription.PrescriptionID,
		"original_language":  originalLanguage,
		"target_language":    req.TargetLanguage,
		"translated_content": content,
		"translated_at":      time.Now().UTC().Format(time.RFC3339),
	}})
}
