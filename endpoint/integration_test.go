package endpoint_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/endpoint"
	"github.com/acneai/backend/middleware"
	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    []byte
	headers map[string]string
}

func doRequest(r http.Handler, params requestParams) (*httptest.ResponseRecorder, error) {
	req, err := http.NewRequest(params.method, params.path, bytes.NewBuffer(params.body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr, nil
}

// fixedClassifier keeps the flow deterministic without model weights on disk.
type fixedClassifier struct{}

func (fixedClassifier) Predict(_ context.Context, _ string, _ model.ClinicalMetadata) (ml.Classification, error) {
	return ml.Classification{
		Severity:      ml.SeverityModerate,
		Confidence:    0.875,
		Scores:        model.SeverityScores{Mild: 0.125, Moderate: 0.875},
		AffectedAreas: []string{"cheeks", "forehead"},
	}, nil
}

func (fixedClassifier) DetectLesions(_, _ string) (model.LesionCounts, error) {
	return model.LesionCounts{Comedones: 12, Papules: 8, Pustules: 6}, nil
}

// setupTestDB initializes the database and returns the connection
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := config.ConnectMySQL()
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}

	testModels := []interface{}{
		&model.User{},
		&model.Session{},
		&model.Diagnosis{},
		&model.Prescription{},
		&model.Reminder{},
		&model.SecurityLog{},
	}

	t.Cleanup(func() {
		if err := db.Migrator().DropTable(testModels...); err != nil {
			t.Errorf("Failed to drop tables during cleanup: %v", err)
		}
	})

	if err := db.AutoMigrate(testModels...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return db
}

// setupTestRouter creates and configures the Gin router
func setupTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))

	api := r.Group("/api/v1")
	auth := api.Group("/auth")
	auth.POST("/register", endpoint.Register)
	auth.POST("/login", endpoint.Login)

	authed := api.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/auth/me", endpoint.Me)
		authed.POST("/auth/logout", endpoint.Logout)

		diagnosis := authed.Group("/diagnosis")
		diagnosis.POST("/analyze", endpoint.AnalyzeImage)
		diagnosis.GET("", endpoint.ListDiagnoses)
		diagnosis.GET("/:id", endpoint.GetDiagnosis)

		prescription := authed.Group("/prescription")
		prescription.POST("/generate", endpoint.GeneratePrescription)
		prescription.POST("/translate", endpoint.TranslatePrescription)
		prescription.GET("", endpoint.ListPrescriptions)
		prescription.GET("/:id", endpoint.GetPrescription)

		reminders := authed.Group("/reminders")
		reminders.POST("/create", endpoint.CreateReminder)
		reminders.GET("", endpoint.ListReminders)
		reminders.GET("/:id", endpoint.GetReminder)
		reminders.POST("/:id/acknowledge", endpoint.AcknowledgeReminder)
		reminders.DELETE("/:id", endpoint.DeleteReminder)
		reminders.POST("/auto-schedule/:prescription_id", endpoint.AutoScheduleReminders)
	}

	return r
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// performRequest executes an HTTP request against the router
func performRequest(t *testing.T, r http.Handler, params requestParams) *httptest.ResponseRecorder {
	rr, err := doRequest(r, params)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", params.method, params.path, err)
	}
	return rr
}

// validateAndDecodeResponse checks the response status and decodes data
func validateAndDecodeResponse(t *testing.T, rr *httptest.ResponseRecorder, method, path string, wantStatus int) json.RawMessage {
	if rr.Code != wantStatus {
		t.Fatalf("%s %s returned %d, want %d: %s", method, path, rr.Code, wantStatus, rr.Body.String())
	}

	var resp apiResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode %s %s response: %v", method, path, err)
	}
	if !resp.Success {
		t.Fatalf("%s %s returned success=false: %s", method, path, rr.Body.String())
	}
	return resp.Data
}

func pngPayload(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// testRegister creates the account and returns the bearer token
func testRegister(t *testing.T, r http.Handler) string {
	registerBody := map[string]string{
		"email":     "flow@example.com",
		"password":  "password123",
		"full_name": "Flow Patient",
		"skin_type": "oily",
	}
	b, _ := json.Marshal(registerBody)

	rr := performRequest(t, r, requestParams{method: "POST", path: "/api/v1/auth/register", body: b})
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/auth/register", http.StatusCreated)

	var tokenData struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(data, &tokenData); err != nil {
		t.Fatalf("failed to parse register data: %v", err)
	}
	if tokenData.AccessToken == "" {
		t.Fatalf("register returned empty token")
	}
	if tokenData.TokenType != "bearer" {
		t.Fatalf("register token_type = %q, want bearer", tokenData.TokenType)
	}
	return tokenData.AccessToken
}

// testAnalyze uploads a photo and returns the diagnosis ID
func testAnalyze(t *testing.T, r http.Handler, token string) string {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("metadata", `{"age":24,"skin_type":"oily","acne_duration_months":14}`); err != nil {
		t.Fatalf("write metadata field: %v", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="face.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create image part: %v", err)
	}
	if _, err := part.Write(pngPayload(t)); err != nil {
		t.Fatalf("write image payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/v1/diagnosis/analyze", body)
	if err != nil {
		t.Fatalf("build analyze request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/diagnosis/analyze", http.StatusCreated)

	var diagnosisData struct {
		DiagnosisID string `json:"diagnosis_id"`
		Severity    string `json:"severity"`
	}
	if err := json.Unmarshal(data, &diagnosisData); err != nil {
		t.Fatalf("failed to parse diagnosis data: %v", err)
	}
	if len(diagnosisData.DiagnosisID) != 8 {
		t.Fatalf("diagnosis_id = %q, want 8 chars", diagnosisData.DiagnosisID)
	}
	if diagnosisData.Severity != ml.SeverityModerate {
		t.Fatalf("severity = %q, want moderate", diagnosisData.Severity)
	}
	return diagnosisData.DiagnosisID
}

// testGenerate builds the treatment plan and returns the prescription ID
func testGenerate(t *testing.T, r http.Handler, token, diagnosisID string) string {
	b, _ := json.Marshal(map[string]string{"diagnosis_id": diagnosisID})
	rr := performRequest(t, r, requestParams{
		method:  "POST",
		path:    "/api/v1/prescription/generate",
		body:    b,
		headers: authHeaders(token),
	})
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/prescription/generate", http.StatusCreated)

	var prescriptionData struct {
		PrescriptionID string             `json:"prescription_id"`
		Status         string             `json:"status"`
		Medications    []model.Medication `json:"medications"`
	}
	if err := json.Unmarshal(data, &prescriptionData); err != nil {
		t.Fatalf("failed to parse prescription data: %v", err)
	}
	if prescriptionData.Status != "generated" {
		t.Fatalf("prescription status = %q, want generated", prescriptionData.Status)
	}
	if len(prescriptionData.Medications) != 2 {
		t.Fatalf("moderate plan has %d medications, want 2", len(prescriptionData.Medications))
	}
	return prescriptionData.PrescriptionID
}

// testTranslate renders the prescription in Telugu
func testTranslate(t *testing.T, r http.Handler, token, prescriptionID string) {
	b, _ := json.Marshal(map[string]string{"prescription_id": prescriptionID, "target_language": "te"})
	rr := performRequest(t, r, requestParams{
		method:  "POST",
		path:    "/api/v1/prescription/translate",
		body:    b,
		headers: authHeaders(token),
	})
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/prescription/translate", http.StatusOK)

	var translateData struct {
		OriginalLanguage  string `json:"original_language"`
		TranslatedContent struct {
			Language     string `json:"language"`
			LanguageName string `json:"language_name"`
		} `json:"translated_content"`
	}
	if err := json.Unmarshal(data, &translateData); err != nil {
		t.Fatalf("failed to parse translation data: %v", err)
	}
	if translateData.OriginalLanguage != "en" {
		t.Fatalf("original_language = %q, want en", translateData.OriginalLanguage)
	}
	if translateData.TranslatedContent.Language != "te" {
		t.Fatalf("translated language = %q, want te", translateData.TranslatedContent.Language)
	}
	if translateData.TranslatedContent.LanguageName != "తెలుగు" {
		t.Fatalf("language_name = %q", translateData.TranslatedContent.LanguageName)
	}
}

// testAutoSchedule creates reminders from the prescription and returns the first ID
func testAutoSchedule(t *testing.T, r http.Handler, token, prescriptionID string) string {
	rr := performRequest(t, r, requestParams{
		method:  "POST",
		path:    "/api/v1/reminders/auto-schedule/" + prescriptionID,
		headers: authHeaders(token),
	})
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/reminders/auto-schedule", http.StatusCreated)

	var scheduleData struct {
		RemindersCreated int `json:"reminders_created"`
		Reminders        []struct {
			ReminderID string `json:"reminder_id"`
		} `json:"reminders"`
	}
	if err := json.Unmarshal(data, &scheduleData); err != nil {
		t.Fatalf("failed to parse schedule data: %v", err)
	}
	if scheduleData.RemindersCreated != 2 || len(scheduleData.Reminders) != 2 {
		t.Fatalf("scheduled %d reminders, want 2", scheduleData.RemindersCreated)
	}
	return scheduleData.Reminders[0].ReminderID
}

// testAcknowledge records one adherence event
func testAcknowledge(t *testing.T, r http.Handler, token, reminderID string) {
	rr := performRequest(t, r, requestParams{
		method:  "POST",
		path:    "/api/v1/reminders/" + reminderID + "/acknowledge",
		headers: authHeaders(token),
	})
	data := validateAndDecodeResponse(t, rr, "POST", "/api/v1/reminders/acknowledge", http.StatusOK)

	var ackData struct {
		TotalAcknowledged int `json:"total_acknowledged"`
	}
	if err := json.Unmarshal(data, &ackData); err != nil {
		t.Fatalf("failed to parse acknowledge data: %v", err)
	}
	if ackData.TotalAcknowledged != 1 {
		t.Fatalf("total_acknowledged = %d, want 1", ackData.TotalAcknowledged)
	}
}

// testListTotals verifies every list reflects the flow so far
func testListTotals(t *testing.T, r http.Handler, token string) {
	cases := []struct {
		path string
		want int64
	}{
		{"/api/v1/diagnosis", 1},
		{"/api/v1/prescription", 1},
		{"/api/v1/reminders", 2},
	}
	for _, tc := range cases {
		rr := performRequest(t, r, requestParams{method: "GET", path: tc.path, headers: authHeaders(token)})
		data := validateAndDecodeResponse(t, rr, "GET", tc.path, http.StatusOK)

		var listData struct {
			Total int64 `json:"total"`
		}
		if err := json.Unmarshal(data, &listData); err != nil {
			t.Fatalf("failed to parse %s data: %v", tc.path, err)
		}
		if listData.Total != tc.want {
			t.Fatalf("%s total = %d, want %d", tc.path, listData.Total, tc.want)
		}
	}
}

// testLogout revokes the session
func testLogout(t *testing.T, r http.Handler, token string) {
	rr := performRequest(t, r, requestParams{
		method:  "POST",
		path:    "/api/v1/auth/logout",
		headers: authHeaders(token),
	})
	validateAndDecodeResponse(t, rr, "POST", "/api/v1/auth/logout", http.StatusOK)
}

func TestIntegrationFlow(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)

	endpoint.SetClassifierForTesting(fixedClassifier{})
	t.Cleanup(func() { endpoint.SetClassifierForTesting(nil) })

	// 1) Register a patient account
	token := testRegister(t, r)

	// 2) Upload a photo for analysis
	diagnosisID := testAnalyze(t, r, token)

	// 3) Generate the treatment plan
	prescriptionID := testGenerate(t, r, token, diagnosisID)

	// 4) Translate the plan to Telugu
	testTranslate(t, r, token, prescriptionID)

	// 5) Schedule medication reminders
	reminderID := testAutoSchedule(t, r, token, prescriptionID)

	// 6) Acknowledge the first reminder
	testAcknowledge(t, r, token, reminderID)

	// 7) Every list reflects the flow
	testListTotals(t, r, token)

	// 8) Logout revokes the session
	testLogout(t, r, token)

	// 9) The token no longer works
	rr := performRequest(t, r, requestParams{
		method:  "GET",
		path:    "/api/v1/auth/me",
		headers: authHeaders(token),
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout returned %d, want 401: %s", rr.Code, rr.Body.String())
	}
}
