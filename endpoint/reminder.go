package endpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createReminderRequest struct {
	PrescriptionID string   `json:"prescription_id" example:"f9e8d7c6"`
	Title          string   `json:"title" binding:"required" example:"Medication: Benzoyl Peroxide 5%"`
	Message        string   `json:"message" example:"Time to apply your treatment."`
	MessageTelugu  string   `json:"message_telugu"`
	Frequency      string   `json:"frequency" example:"twice_daily"`
	Times          []string `json:"times" example:"09:00,21:00"`
}

// CreateReminder godoc
// @Summary Create a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createReminderRequest true "Reminder data"
// @Success 201 {object} util.APIResponse
// @Failure 400 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /reminders/create [post]
func CreateReminder(c *gin.Context) {
	req := createReminderRequest{}
	if !bindJSONOrRespond(c, &req, "Invalid reminder payload") {
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
	if req.PrescriptionID != "" {
		var prescription model.Prescription
		if err := db.Where("prescription_id = ? AND user_id = ?", req.PrescriptionID, userID).First(&prescription).Error; err != nil {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Prescription not found", Err: err})
			return
		}
	}
	if req.Frequency == "" {
		req.Frequency = "once_daily"
	}
	if len(req.Times) == 0 {
		req.Times = []string{"09:00"}
	}
	reminder := model.Reminder{
		UserID:         userID,
		PrescriptionID: req.PrescriptionID,
		Title:          req.Title,
		Message:        req.Message,
		MessageTelugu:  req.MessageTelugu,
		Frequency:      req.Frequency,
		Times:          datatypes.NewJSONSlice(req.Times),
		Status:         "active",
	}
	if err := createWithPublicID(db, &reminder, func(id string) { reminder.ReminderID = id }); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store reminder", Err: err})
		return
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Reminder created", Data: reminder})
}

// ListReminders godoc
// @Summary List the caller's reminders
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /reminders [get]
func ListReminders(c *gin.Context) {
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
	if err := db.Model(&model.Reminder{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count reminders", Err: err})
		return
	}
	var reminders []model.Reminder
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reminders).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch reminders", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminders retrieved", Data: map[string]interface{}{
		"total":     total,
		"reminders": reminders,
	}})
}

// GetReminder godoc
// @Summary Fetch one reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Router /reminders/{id} [get]
func GetReminder(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "reminder ID")
	if !ok {
		return
	}
	var reminder model.Reminder
	if err := db.Where("reminder_id = ? AND user_id = ?", id, userID).First(&reminder).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Reminder not found", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminder retrieved", Data: reminder})
}

// AcknowledgeReminder godoc
// @Summary Acknowledge a reminder
// @Description Record that the user acted on the reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /reminders/{id}/acknowledge [post]
func AcknowledgeReminder(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "reminder ID")
	if !ok {
		return
	}
	var reminder model.Reminder
	if err := db.Where("reminder_id = ? AND user_id = ?", id, userID).First(&reminder).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Reminder not found", Err: err})
		return
	}
	reminder.TotalAcknowledged++
	if err := db.Model(&reminder).Update("total_acknowledged", reminder.TotalAcknowledged).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to acknowledge reminder", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminder acknowledged", Data: map[string]interface{}{
		"reminder_id":        reminder.ReminderID,
		"acknowledged_at":    time.Now().UTC().Format(time.RFC3339),
		"total_acknowledged": reminder.TotalAcknowledged,
	}})
}

// DeleteReminder godoc
// @Summary Delete a reminder
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /reminders/{id} [delete]
func DeleteReminder(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "reminder ID")
	if !ok {
		return
	}
	result := db.Where("reminder_id = ? AND user_id = ?", id, userID).Delete(&model.Reminder{})
	if result.Error != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete reminder", Err: result.Error})
		return
	}
	if result.RowsAffected == 0 {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Reminder not found"})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminder deleted", Data: map[string]interface{}{}})
}

// AutoScheduleReminders godoc
// @Summary Schedule reminders from a prescription
// @Description Create one reminder per medication with times derived from its frequency
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param prescription_id path string true "Prescription ID"
// @Success 201 {object} util.APIResponse
// @Failure 401 {object} util.APIResponse
// @Failure 404 {object} util.APIResponse
// @Failure 500 {object} util.APIResponse
// @Router /reminders/auto-schedule/{prescription_id} [post]
func AutoScheduleReminders(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	prescriptionID := c.Param("prescription_id")
	if prescriptionID == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Missing prescription ID"})
		return
	}
	var prescription model.Prescription
	if err := db.Where("prescription_id = ? AND user_id = ?", prescriptionID, userID).First(&prescription).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Prescription not found", Err: err})
		return
	}
	created := make([]model.Reminder, 0, len(prescription.Medications))
	for _, med := range prescription.Medications {
		times, frequency := scheduleForFrequency(med.Frequency)
		message := fmt.Sprintf("Time to apply/take %s. %s", med.Name, med.Instructions)
		reminder := model.Reminder{
			UserID:         userID,
			PrescriptionID: prescription.PrescriptionID,
			Title:          "Medication: " + med.Name,
			Message:        message,
			MessageTelugu:  ml.TranslateText(message, "te"),
			Frequency:      frequency,
			Times:          datatypes.NewJSONSlice(times),
			Status:         "active",
		}
		if err := createWithPublicID(db, &reminder, func(id string) { reminder.ReminderID = id }); err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to store reminders", Err: err})
			return
		}
		created = append(created, reminder)
	}
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Reminders scheduled", Data: map[string]interface{}{
		"prescription_id":   prescription.PrescriptionID,
		"reminders_created": len(created),
		"reminders":         created,
	}})
}

// scheduleForFrequency maps a medication's free-text frequency onto reminder
// times and a normalized frequency tag.
func scheduleForFrequency(frequency string) ([]string, string) {
	lower := strings.ToLower(frequency)
	switch {
	case strings.Contains(lower, "twice"):
		return []string{"09:00", "21:00"}, "twice_daily"
	case strings.Contains(lower, "three"):
		return []string{"09:00", "14:00", "21:00"}, "three_times_daily"
	case strings.Contains(lower, "night"):
		return []string{"21:00"}, "once_daily"
	default:
		return []string{"09:00"}, "once_daily"
	}
}
