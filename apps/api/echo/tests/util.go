package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/academy/apps/api/echo"
	"github.com/trezcool/academy/core"
	"github.com/trezcool/academy/core/batch"
	"github.com/trezcool/academy/core/student"
	"github.com/trezcool/academy/services/email"
	"github.com/trezcool/academy/services/logger"
	"github.com/trezcool/academy/storage/database/dummy"
)

var (
	studentSvc *student.Service
	batchSvc   *batch.Service
)

func setup(t *testing.T) Server {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	// set up services
	appLogger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	core.ParseEmailTemplates(appLogger)
	emailsvc.ResetSentMessages()
	notifier := student.NewNotifier(emailsvc.NewConsoleTransportMock(), appLogger)

	batchRepo := dummydb.NewBatchRepository(db)
	batchSvc = batch.NewService(batchRepo)
	studentSvc = student.NewService(dummydb.NewStudentRepository(db), batchRepo, notifier, appLogger)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			StudentSvc:     studentSvc,
			BatchSvc:       batchSvc,
			Notifier:       notifier,
			Logger:         appLogger,
		},
	)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, st student.Student) string {
	claims := GetStudentClaims(st)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createBatch(t *testing.T, name string) batch.Batch {
	t.Helper()
	b, err := batchSvc.Create(testCtx(), batch.NewBatch{Name: name, StartDate: time.Now().UTC()})
	if err != nil {
		t.Fatalf("createBatch() failed: %v", err)
	}
	return b
}

func createStudent(t *testing.T, name, email, batchID string) student.StudentResult {
	t.Helper()
	res, err := studentSvc.Create(testCtx(), student.NewStudent{Name: name, Email: email, BatchID: batchID})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return res
}

func testCtx() context.Context { return context.Background() }

// nolint
func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
