package endpoint

import (
	"context"
	"strconv"
	"sync"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/middleware"
	"github.com/acneai/backend/ml"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ensureDB pulls the request-scoped DB handle and answers a server error
// when the middleware did not provide one.
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available"})
		return nil, false
	}
	return db, true
}

// bindJSONOrRespond binds the request body into dst and answers a user error
// with the given message when the payload does not bind or validate.
func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

// getIDParam extracts the :id path parameter. The label names the resource
// in the error message, e.g. "diagnosis ID".
func getIDParam(c *gin.Context, label string) (string, bool) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Missing " + label})
		return "", false
	}
	return id, true
}

// currentUserID pulls the authenticated user ID stored by RequireAuth. A
// missing ID means the route was wired without the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required"})
		return "", false
	}
	return userID, true
}

// loadCurrentUser fetches the authenticated user's account row.
func loadCurrentUser(c *gin.Context, db *gorm.DB) (model.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return model.User{}, false
	}
	var user model.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "User not found", Err: err})
		return model.User{}, false
	}
	return user, true
}

// listParams parses the limit and offset query parameters with the defaults
// shared by every list endpoint.
func listParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

const publicIDAttempts = 3

// createWithPublicID inserts a record whose short public ID carries a unique
// index, regenerating the ID when a collision is rejected.
func createWithPublicID(db *gorm.DB, record interface{}, assign func(string)) error {
	var err error
	for i := 0; i < publicIDAttempts; i++ {
		assign(model.NewPublicID())
		if err = db.Create(record).Error; err == nil {
			return nil
		}
	}
	return err
}

// acneClassifier is the slice of the ml classifier the diagnosis handlers
// consume. Tests substitute a stub through SetClassifierForTesting.
type acneClassifier interface {
	Predict(ctx context.Context, imagePath string, meta model.ClinicalMetadata) (ml.Classification, error)
	DetectLesions(imagePath, severity string) (model.LesionCounts, error)
}

var (
	classifierMu sync.Mutex
	classifier   acneClassifier
)

// getClassifier lazily builds the classifier from config on first use so
// importing this package never touches the model directory.
func getClassifier() acneClassifier {
	classifierMu.Lock()
	defer classifierMu.Unlock()
	if classifier == nil {
		cfg := config.LoadConfig()
		classifier = ml.NewClassifier(ml.Options{
			ModelDir:        cfg.ModelDir,
			InferenceURL:    cfg.InferenceURL,
			InferenceScript: cfg.InferenceScript,
			PythonBin:       cfg.PythonBin,
		})
	}
	return classifier
}

// SetClassifierForTesting swaps the classifier used by the diagnosis
// handlers. Passing nil restores the lazily built default. Tests only.
func SetClassifierForTesting(stub acneClassifier) {
	classifierMu.Lock()
	defer classifierMu.Unlock()
	classifier = stub
}
