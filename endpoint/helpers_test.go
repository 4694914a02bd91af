package endpoint

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acneai/backend/middleware"
	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// endpointTestModels is the schema migrated for endpoint tests.
var endpointTestModels = []interface{}{
	&model.User{},
	&model.Session{},
	&model.Diagnosis{},
	&model.Prescription{},
	&model.Reminder{},
	&model.SecurityLog{},
}

var testDBSeq int64

// newEndpointTestDB opens a fresh in-memory database with the full schema.
// The DSN is unique per call so parallel packages never share state.
func newEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:endpoint_%d_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBSeq, 1), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(endpointTestModels...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newTestRouter builds an engine with the DB injected, leaving route
// registration to the test.
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r
}

// newAPIEngine wires every route the way main does, minus the logging and
// CORS layers tests do not need.
func newAPIEngine(db *gorm.DB) *gin.Engine {
	r := newTestRouter(db)
	r.GET("/", Root)
	r.GET("/health", Health)

	api := r.Group("/api/v1")
	api.GET("/info", Info)

	auth := api.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/login", Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	authed.GET("/auth/me", Me)
	authed.PUT("/auth/me", UpdateMe)
	authed.POST("/auth/logout", Logout)
	authed.GET("/auth/validate", ValidateToken)

	diagnosis := authed.Group("/diagnosis")
	diagnosis.POST("/analyze", AnalyzeImage)
	diagnosis.GET("", ListDiagnoses)
	diagnosis.GET("/:id", GetDiagnosis)

	prescription := authed.Group("/prescription")
	prescription.POST("/generate", GeneratePrescription)
	prescription.POST("/translate", TranslatePrescription)
	prescription.GET("", ListPrescriptions)
	prescription.GET("/:id", GetPrescription)

	reminders := authed.Group("/reminders")
	reminders.POST("/create", CreateReminder)
	reminders.GET("", ListReminders)
	reminders.GET("/:id", GetReminder)
	reminders.POST("/:id/acknowledge", AcknowledgeReminder)
	reminders.DELETE("/:id", DeleteReminder)
	reminders.POST("/auto-schedule/:prescription_id", AutoScheduleReminders)

	return r
}

// asUser injects the authenticated user ID the way RequireAuth does after a
// successful token check. Handler tests use it to skip the token dance.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{
		UserID:      model.NewUserID(),
		Email:       email,
		Password:    "not-a-real-hash",
		FullName:    "Test Patient",
		SkinType:    "normal",
		Preferences: datatypes.JSONMap{},
		IsActive:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedDiagnosis(t *testing.T, db *gorm.DB, userID, severity string, lesions model.LesionCounts, meta model.ClinicalMetadata) model.Diagnosis {
	t.Helper()
	diagnosis := model.Diagnosis{
		DiagnosisID:        model.NewPublicID(),
		UserID:             userID,
		Severity:           severity,
		Confidence:         82,
		SeverityScores:     datatypes.NewJSONType(model.SeverityScores{Moderate: 0.82}),
		LesionCounts:       datatypes.NewJSONType(lesions),
		AffectedAreas:      datatypes.NewJSONSlice([]string{"face"}),
		ClinicalNotes:      buildClinicalNotes(severity, lesions, meta),
		RecommendedUrgency: urgencyFor(severity),
		ImageURL:           "/uploads/seeded.jpg",
		ClinicalMetadata:   datatypes.NewJSONType(meta),
	}
	if err := db.Create(&diagnosis).Error; err != nil {
		t.Fatalf("seed diagnosis: %v", err)
	}
	return diagnosis
}

func seedPrescription(t *testing.T, db *gorm.DB, userID string, medications []model.Medication) model.Prescription {
	t.Helper()
	prescription := model.Prescription{
		PrescriptionID:           model.NewPublicID(),
		DiagnosisID:              model.NewPublicID(),
		UserID:                   userID,
		Severity:                 ml.SeverityModerate,
		Medications:              datatypes.NewJSONSlice(medications),
		LifestyleRecommendations: datatypes.NewJSONSlice([]string{"Use oil-free, non-comedogenic products"}),
		FollowUpInstructions:     "Follow up in 6-8 weeks to assess response.",
		Reasoning:                "seeded plan",
		Status:                   "generated",
	}
	if err := db.Create(&prescription).Error; err != nil {
		t.Fatalf("seed prescription: %v", err)
	}
	return prescription
}

func seedReminder(t *testing.T, db *gorm.DB, userID string) model.Reminder {
	t.Helper()
	reminder := model.Reminder{
		ReminderID: model.NewPublicID(),
		UserID:     userID,
		Title:      "Medication: Benzoyl Peroxide 5%",
		Message:    "Time to apply/take Benzoyl Peroxide 5%.",
		Frequency:  "once_daily",
		Times:      datatypes.NewJSONSlice([]string{"09:00"}),
		Status:     "active",
	}
	if err := db.Create(&reminder).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	return reminder
}

// registerTestUser runs the real register flow against an engine built by
// newAPIEngine and returns the issued token and user ID.
func registerTestUser(t *testing.T, r *gin.Engine, email string) (string, string) {
	t.Helper()
	w, resp, err := performRequest(r, requestSpec{
		method:      http.MethodPost,
		requestPath: "/api/v1/auth/register",
		body: map[string]interface{}{
			"email":     email,
			"password":  "password123",
			"full_name": "Test Patient",
		},
	})
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	data := responseData(t, resp)
	token, _ := data["access_token"].(string)
	user, _ := data["user"].(map[string]interface{})
	if token == "" || user == nil {
		t.Fatalf("register returned incomplete token payload: %v", data)
	}
	userID, _ := user["user_id"].(string)
	return token, userID
}

// stubClassifier returns canned results so handler tests never touch a
// model backend.
type stubClassifier struct {
	result     ml.Classification
	lesions    model.LesionCounts
	predictErr error
	lesionsErr error
}

func (s stubClassifier) Predict(_ context.Context, _ string, _ model.ClinicalMetadata) (ml.Classification, error) {
	if s.predictErr != nil {
		return ml.Classification{}, s.predictErr
	}
	return s.result, nil
}

func (s stubClassifier) DetectLesions(_, _ string) (model.LesionCounts, error) {
	if s.lesionsErr != nil {
		return model.LesionCounts{}, s.lesionsErr
	}
	return s.lesions, nil
}

// useStubClassifier installs a canned classifier for the test and clears it
// afterwards.
func useStubClassifier(t *testing.T, stub stubClassifier) {
	t.Helper()
	SetClassifierForTesting(stub)
	t.Cleanup(func() { SetClassifierForTesting(nil) })
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body %s", w.Code, want, w.Body.String())
	}
}

// assertSuccessResponse checks the envelope's success flag and, when
// wantMsg is non-empty, the msg field.
func assertSuccessResponse(t *testing.T, resp map[string]interface{}, wantMsg string) {
	t.Helper()
	if success, _ := resp["success"].(bool); !success {
		t.Fatalf("success = false, response %v", resp)
	}
	if wantMsg != "" && resp["msg"] != wantMsg {
		t.Fatalf("msg = %v, want %q", resp["msg"], wantMsg)
	}
}

func responseData(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response data missing: %v", resp)
	}
	return data
}

// pngBytes encodes a small checkerboard PNG. The contrast gives the lesion
// estimator nonzero pixel variance when the real classifier runs.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
