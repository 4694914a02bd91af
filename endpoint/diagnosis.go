package endpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalyzeImage godoc
// @Summary Analyze a facial photo
// @Description Classify acne severity, estimate lesion counts and store the diagnosis
// @Tags Diagnosis
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Facial photo"
// @Param clinical_metadata formData string false "Clinical metadata JSON"
// @Success 201 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 413 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /diagnosis/analyze [post]
func AnalyzeImage(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("image")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Image file is required", Err: err})
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		util.CallUserError(c, util.APIErrorParams{Msg: "File must be an image"})
		return
	}
	cfg := config.LoadConfig()
	if header.Size > cfg.MaxUploadSize {
		msg := fmt.Sprintf("File too large. Maximum size is %dMB", cfg.MaxUploadSize/(1024*1024))
		util.CallRequestEntityTooLarge(c, util.APIErrorParams{Msg: msg})
		return
	}
	meta, ok := parseClinicalMetadata(c)
	if !ok {
		return
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to prepare upload directory", Err: err})
		return
	}
	filename := uuid.NewString() + filepath.Ext(header.Filename)
	imagePath := filepath.Join(cfg.UploadDir, filename)
	if err := c.SaveUploadedFile(header, imagePath); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store image", Err: err})
		return
	}

	cls := getClassifier()
	result, err := cls.Predict(c.Request.Context(), imagePath, meta)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Image analysis failed", Err: err})
		return
	}
	lesions, err := cls.DetectLesions(imagePath, result.Severity)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Lesion estimation failed", Err: err})
		return
	}

	diagnosis := model.Diagnosis{
		UserID:             userID,
		Severity:           result.Severity,
		Confidence:         int(result.Confidence * 100),
		SeverityScores:     datatypes.NewJSONType(result.Scores),
		LesionCounts:       datatypes.NewJSONType(lesions),
		AffectedAreas:      datatypes.NewJSONSlice(result.AffectedAreas),
		ClinicalNotes:      buildClinicalNotes(result.Severity, lesions, meta),
		RecommendedUrgency: urgencyFor(result.Severity),
		ImageURL:           "/uploads/" + filename,
		ClinicalMetadata:   datatypes.NewJSONType(meta),
	}
	if err := createWithPublicID(db, &diagnosis, func(id string) { diagnosis.DiagnosisID = id }); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store diagnosis", Err: err})
		return
	}
	util.LogDiagnosisCreated(userID, c.ClientIP(), diagnosis.DiagnosisID, diagnosis.Severity)
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Diagnosis created", Data: diagnosis.AsResponse()})
}

// GetDiagnosis godoc
// @Summary Fetch one diagnosis
// @Tags Diagnosis
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diagnosis ID"
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Router /diagnosis/{id} [get]
func GetDiagnosis(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "diagnosis ID")
	if !ok {
		return
	}
	var diagnosis model.Diagnosis
	if err := db.Where("diagnosis_id = ? AND user_id = ?", id, userID).First(&diagnosis).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Diagnosis not found", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diagnosis retrieved", Data: diagnosis.AsResponse()})
}

// ListDiagnoses godoc
// @Summary List the caller's diagnoses
// @Tags Diagnosis
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /diagnosis [get]
func ListDiagnoses(c *gin.Context) {
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
	if err := db.Model(&model.Diagnosis{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count diagnoses", Err: err})
		return
	}
	var diagnoses []model.Diagnosis
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&diagnoses).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch diagnoses", Err: err})
		return
	}
	responses := make([]model.DiagnosisResponse, 0, len(diagnoses))
	for _, d := range diagnoses {
		responses = append(responses, d.AsResponse())
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Diagnoses retrieved", Data: map[string]interface{}{
		"total":     total,
		"diagnoses": responses,
	}})
}

// parseClinicalMetadata reads the optional clinical_metadata form field.
// Absent fields keep the defaults the rest of the pipeline assumes.
func parseClinicalMetadata(c *gin.Context) (model.ClinicalMetadata, bool) {
	meta := model.ClinicalMetadata{SkinType: "normal", AcneDurationMonths: 6}
	raw := c.PostForm("clinical_metadata")
	if raw == "" {
		return meta, true
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid clinical metadata JSON", Err: err})
		return meta, false
	}
	return meta, true
}

// buildClinicalNotes writes the summary text stored with a diagnosis. The
// wording is fixed; downstream clients display it verbatim.
func buildClinicalNotes(severity string, lesions model.LesionCounts, meta model.ClinicalMetadata) string {
	total := lesions.Total()
	notes := []string{}
	switch severity {
	case ml.SeverityClear:
		if total == 0 {
			notes = append(notes, "No significant acne lesions detected.")
		} else {
			notes = append(notes, "Minimal acne lesions detected. Skin appears relatively clear.")
		}
	case ml.SeverityMild:
		notes = append(notes, fmt.Sprintf("Mild acne detected with %d total lesions (primarily comedones and papules).", total))
	case ml.SeverityModerate:
		notes = append(notes, fmt.Sprintf("Moderate acne with %d total lesions including papules and pustules.", total))
	case ml.SeveritySevere:
		notes = append(notes, fmt.Sprintf("Severe acne with %d total lesions including numerous pustules and nodules.", total))
	case ml.SeverityVerySevere:
		notes = append(notes, fmt.Sprintf("Very severe cystic acne with %d total lesions including nodules and cysts. Requires aggressive treatment.", total))
	default:
		notes = append(notes, fmt.Sprintf("Acne severity: %s. Total lesions detected: %d.", severity, total))
	}
	if total > 0 {
		observations := []string{}
		if lesions.Nodules > 0 || lesions.Cysts > 0 {
			observations = append(observations, "nodular/cystic lesions present")
		}
		if lesions.Pustules > 5 {
			observations = append(observations, "multiple inflammatory pustules")
		}
		if len(observations) > 0 {
			notes = append(notes, "Note: "+strings.Join(observations, ", ")+".")
		}
	}
	if meta.AcneDurationMonths > 12 {
		notes = append(notes, "Chronic acne (>12 months) - consider comprehensive treatment plan.")
	}
	return strings.Join(notes, " ")
}

func urgencyFor(severity string) string {
	switch severity {
	case ml.SeverityClear, ml.SeverityMild:
		return "routine"
	case ml.SeverityModerate, ml.SeveritySevere:
		return "soon"
	case ml.SeverityVerySevere:
		return "urgent"
	default:
		return "routine"
	}
}
