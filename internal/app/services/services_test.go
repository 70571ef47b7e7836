package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/models/dto"
	"github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/app/repositories/sqlitestore"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/groupprovider"
)

func newTestRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	store, err := db.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return sqlitestore.NewRepositories(store.DB)
}

func strPtr(s string) *string { return &s }

func sessionsCourse(t *testing.T, svc *CourseService, name string) *models.Course {
	t.Helper()
	course, err := svc.CreateCourse(t.Context(), &dto.CreateCourseRequest{
		CourseName: name,
		Sessions: []models.Session{
			{StartTime: "8:00", EndTime: "9:30"},
			{StartTime: "18:00", EndTime: "19:30"},
		},
	})
	require.NoError(t, err)
	return course
}

// fakeProvider serves canned provider bodies and counts calls per path
type fakeProvider struct {
	server      *httptest.Server
	addBody     string
	inviteBody  string
	inviteCode  int
	groupsBody  string
	addCalls    atomic.Int32
	inviteCalls atomic.Int32
	groupCalls  atomic.Int32
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{inviteCode: http.StatusOK, groupsBody: `[]`}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/default/groups/{chat}/participants/add", func(w http.ResponseWriter, r *http.Request) {
		p.addCalls.Add(1)
		_, _ = w.Write([]byte(p.addBody))
	})
	mux.HandleFunc("GET /api/default/groups/{chat}/invite-code", func(w http.ResponseWriter, r *http.Request) {
		p.inviteCalls.Add(1)
		w.WriteHeader(p.inviteCode)
		_, _ = w.Write([]byte(p.inviteBody))
	})
	mux.HandleFunc("GET /api/default/groups", func(w http.ResponseWriter, r *http.Request) {
		p.groupCalls.Add(1)
		_, _ = w.Write([]byte(p.groupsBody))
	})
	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) client() *groupprovider.Client {
	return groupprovider.NewClient(groupprovider.Config{
		BaseURL: p.server.URL,
		Session: "default",
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, nil)
}

func newGroupService(t *testing.T, p *fakeProvider, ttl time.Duration) *GroupService {
	t.Helper()
	svc, err := NewGroupService(p.client(), ttl, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}
