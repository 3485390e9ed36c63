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

	. "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/org"
	"github.com/darasahq/darasa/core/student"
	"github.com/darasahq/darasa/core/user"
	dummymail "github.com/darasahq/darasa/services/email/dummy"
	logsvc "github.com/darasahq/darasa/services/logger"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

var (
	conf    *core.Config
	usrRepo user.Repository
	stRepo  student.Repository
	crsRepo course.Repository
	orgRec  org.Organization

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

// setup wires a fresh in-memory application for each test: dummy
// repositories, a seeded organization and the full HTTP surface.
func setup(t *testing.T, plan string, features ...string) Server {
	t.Helper()

	conf = core.NewConfig("test")
	conf.Debug = false
	conf.TestMode = true
	conf.Org.Plan = plan
	conf.Org.Features = features

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	stRepo = dummydb.NewStudentRepository(db)
	crsRepo = dummydb.NewCourseRepository(db)
	orgRepo := dummydb.NewOrgRepository(db)

	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags|log.Lshortfile))
	mailSvc := dummymail.NewService()
	resolver := access.NewResolver(logger)

	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	orgSvc := org.NewService(orgRepo)
	stSvc := student.NewService(stRepo, resolver)
	crsSvc := course.NewService(crsRepo, resolver)

	orgRec, err = orgSvc.Ensure(context.Background(), conf)
	if err != nil {
		t.Fatalf("orgSvc.Ensure() failed: %v", err)
	}

	return NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		OrgSvc:         orgSvc,
		StudentSvc:     stSvc,
		CourseSvc:      crsSvc,
		Registry:       access.DefaultRegistry,
		Resolver:       resolver,
	})
}

func createUser(t *testing.T, name, uname, email, pwd string, role access.Role, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		OrgID:     orgRec.ID,
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  &isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func createStudent(t *testing.T, name, grade, instructorID, userID string) student.Student {
	t.Helper()

	now := time.Now().UTC()
	active := true
	st, err := stRepo.CreateStudent(context.Background(), student.Student{
		OrgID:        orgRec.ID,
		UserID:       userID,
		InstructorID: instructorID,
		Name:         name,
		Email:        "",
		Grade:        grade,
		IsActive:     &active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func createCourse(t *testing.T, code, title, subject, instructorID string, isActive bool) course.Course {
	t.Helper()

	now := time.Now().UTC()
	c, err := crsRepo.CreateCourse(context.Background(), course.Course{
		OrgID:        orgRec.ID,
		InstructorID: instructorID,
		Code:         code,
		Title:        title,
		Subject:      subject,
		IsActive:     &isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
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

func getToken(t *testing.T, usr user.User, tier access.Tier) string {
	t.Helper()

	claims := GetUserClaims(conf, usr, tier)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// pageData marshals the expected list envelope.
func pageData(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	if objs == nil {
		objs = []interface{}{}
	}
	return marchallObj(t, map[string]interface{}{"data": objs, "count": len(objs)})
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
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
