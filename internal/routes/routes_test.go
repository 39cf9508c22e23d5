package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/authz"
	"goodsgo/internal/handlers"
	"goodsgo/internal/logger"
	"goodsgo/internal/middleware"
	"goodsgo/internal/models"
	"goodsgo/internal/pdf"
	"goodsgo/internal/repositories"
	"goodsgo/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router      *gin.Engine
	adminToken  string
	leaderToken string
	adminID     string
	itemID      string
	fromID      string
	toID        string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := repositories.Open(repositories.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	locations := repositories.NewLocationRepository(db)
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	admin := &models.User{Name: "管理者", Role: authz.RoleAdmin, Created: now, Modified: now}
	leader := &models.User{Name: "指揮者", Role: authz.RoleLeader, Created: now, Modified: now}
	for _, u := range []*models.User{admin, leader} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	desk := &models.Item{Name: "机", Created: now, Modified: now}
	if err := items.Create(ctx, desk); err != nil {
		t.Fatalf("create item: %v", err)
	}
	gym := &models.Location{Name: "体育館", Created: now, Modified: now}
	hall := &models.Location{Name: "講堂", Created: now, Modified: now}
	for _, loc := range []*models.Location{gym, hall} {
		if err := locations.Create(ctx, loc); err != nil {
			t.Fatalf("create location: %v", err)
		}
	}

	log := logger.Discard()
	taskService := services.NewTaskService(
		repositories.NewTaskRepository(db), items, locations, users,
		repositories.NewTaskActivityRepository(db),
		services.NewTaskListCache(16, time.Minute), nil, log,
	)
	authService := services.NewAuthService(users, log)
	tokens, err := middleware.NewSessionTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	router := gin.New()
	SetupRoutes(router, Deps{
		Tokens:   tokens,
		Profiles: authService,
		DB:       db,
		Auth:     handlers.NewAuthHandler(authService, tokens, false, log),
		Tasks:    handlers.NewTaskHandler(taskService, pdf.NewSheetGenerator(""), log),
	})

	adminToken, _ := tokens.Issue(admin.ID)
	leaderToken, _ := tokens.Issue(leader.ID)
	return &testEnv{
		router:      router,
		adminToken:  adminToken,
		leaderToken: leaderToken,
		adminID:     admin.ID,
		itemID:      desk.ID,
		fromID:      gym.ID,
		toID:        hall.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) taskBody(quantity int, to string) map[string]any {
	return map[string]any{
		"eventDayType":       1,
		"currentStatus":      0,
		"leaderUserId":       e.adminID,
		"fromLocationId":     e.fromID,
		"toLocationId":       to,
		"itemId":             e.itemID,
		"quantity":           quantity,
		"scheduledStartTime": "10:00",
		"scheduledEndTime":   "11:30",
		"note":               "台車を使う",
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

type listBody struct {
	Tasks      []models.AdminTask `json:"tasks"`
	FilterTags []models.FilterTag `json:"filterTags"`
	Canonical  string             `json:"canonical"`
}

func TestGuards(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"anonymous api", http.MethodGet, "/api/admin/tasks", "", http.StatusUnauthorized},
		{"anonymous me", http.MethodGet, "/api/me", "", http.StatusUnauthorized},
		{"leader is not admin", http.MethodGet, "/api/admin/tasks", env.leaderToken, http.StatusForbidden},
		{"leader cannot delete", http.MethodDelete, "/api/admin/tasks/x", env.leaderToken, http.StatusForbidden},
		{"bad token is anonymous", http.MethodGet, "/api/admin/tasks", "nope", http.StatusUnauthorized},
		{"admin list", http.MethodGet, "/api/admin/tasks", env.adminToken, http.StatusOK},
		{"leader me", http.MethodGet, "/api/me", env.leaderToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.path, nil, tc.token)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHomeRedirect(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]string{
		"":              middleware.LoginPath,
		env.adminToken:  "/admin/tasks",
		env.leaderToken: "/tasks",
	}
	for token, want := range cases {
		rec := env.do(t, http.MethodGet, "/", nil, token)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != want {
			t.Errorf("Location = %q, want %q", got, want)
		}
	}
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/tasks", env.taskBody(3, env.toID), env.adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks?status=0&sortDirection=desc", nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[listBody](t, rec)
	if len(list.Tasks) != 1 {
		t.Fatalf("tasks = %+v", list.Tasks)
	}
	task := list.Tasks[0]
	if task.ItemName != "机" || task.FromLocationName != "体育館" || task.ToLocationName != "講堂" {
		t.Fatalf("names not resolved: %+v", task)
	}
	if task.LeaderName == nil || *task.LeaderName != "管理者" {
		t.Fatalf("leader name = %v", task.LeaderName)
	}
	if list.Canonical != "sortDirection=desc&status=0" {
		t.Fatalf("canonical = %q", list.Canonical)
	}
	if len(list.FilterTags) != 1 || list.FilterTags[0].Label != "未着手" {
		t.Fatalf("filter tags = %+v", list.FilterTags)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks/form?mode=edit&taskId="+task.TaskID, nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("form status = %d", rec.Code)
	}
	form := decode[models.TaskFormState](t, rec)
	if form.Mode != models.TaskFormEdit || form.Values.Quantity == nil || *form.Values.Quantity != 3 {
		t.Fatalf("form = %+v", form)
	}

	rec = env.do(t, http.MethodPut, "/api/admin/tasks/"+task.TaskID, env.taskBody(5, env.toID), env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPut, "/api/admin/tasks/"+task.TaskID, env.taskBody(5, env.fromID), env.adminToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("same location status = %d", rec.Code)
	}
	if res := decode[models.ActionResult](t, rec); len(res.FieldErrors["toLocationId"]) == 0 {
		t.Fatalf("expected toLocationId error, got %+v", res)
	}

	rec = env.do(t, http.MethodDelete, "/api/admin/tasks/"+task.TaskID, nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/api/admin/tasks/"+task.TaskID, nil, env.adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second delete status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks", nil, env.adminToken)
	if list := decode[listBody](t, rec); len(list.Tasks) != 0 {
		t.Fatalf("deleted task still listed: %+v", list.Tasks)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks/"+task.TaskID, nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	detail := decode[models.TaskDetail](t, rec)
	if detail.Task.Deleted == nil || detail.Task.Quantity != 5 {
		t.Fatalf("detail task = %+v", detail.Task)
	}
	if len(detail.Activities) != 3 {
		t.Fatalf("activities = %+v", detail.Activities)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks/form?mode=edit&taskId="+task.TaskID, nil, env.adminToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("form of deleted task status = %d", rec.Code)
	}
}

func TestTaskRequestErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/admin/tasks", "{not json", env.adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/admin/tasks", map[string]any{}, env.adminToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty input status = %d", rec.Code)
	}
	if res := decode[models.ActionResult](t, rec); res.OK || len(res.FieldErrors) == 0 {
		t.Fatalf("result = %+v", res)
	}

	rec = env.do(t, http.MethodPut, "/api/admin/tasks/missing", env.taskBody(1, env.toID), env.adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update missing status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks/missing", nil, env.adminToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/tasks/form", nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("create form status = %d", rec.Code)
	}
	if form := decode[models.TaskFormState](t, rec); form.Mode != models.TaskFormCreate {
		t.Fatalf("form mode = %q", form.Mode)
	}
}

func TestExportPDF(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/admin/tasks", env.taskBody(2, env.toID), env.adminToken)

	rec := env.do(t, http.MethodGet, "/api/admin/tasks/export.pdf?day=1", nil, env.adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	account := map[string]string{
		"name":            "山田太郎",
		"email":           "24.a.yamada.nutfes@gmail.com",
		"password":        "password1",
		"confirmPassword": "password1",
	}

	rec := env.do(t, http.MethodPost, "/api/register", account, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("session cookie = %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"home":"/tasks"`) {
		t.Fatalf("me = %d %s", me.Code, me.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/tasks", nil)
	req.AddCookie(cookie)
	forbidden := httptest.NewRecorder()
	env.router.ServeHTTP(forbidden, req)
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("member on admin list = %d", forbidden.Code)
	}

	if rec := env.do(t, http.MethodPost, "/api/register", account, ""); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", rec.Code)
	}

	login := map[string]string{"email": account["email"], "password": "password2"}
	if rec := env.do(t, http.MethodPost, "/api/login", login, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", rec.Code)
	}
	login["password"] = account["password"]
	rec = env.do(t, http.MethodPost, "/api/login", login, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(rec) == nil {
		t.Fatal("login did not set the session cookie")
	}

	bad := map[string]string{"email": "someone@example.com", "password": "password1"}
	if rec := env.do(t, http.MethodPost, "/api/login", bad, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad email status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/logout", nil, "")
	if c := sessionCookie(rec); rec.Code != http.StatusOK || c == nil || c.MaxAge >= 0 {
		t.Fatalf("logout = %d cookie %+v", rec.Code, c)
	}
}

func TestTaskWronglyTypedFieldsAreFieldErrors(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		field string
		value any
	}{
		{"quantity", 1.5},
		{"quantity", "2"},
		{"eventDayType", "1"},
		{"currentStatus", 0.5},
	}
	for _, tc := range cases {
		body := env.taskBody(2, env.toID)
		body[tc.field] = tc.value
		rec := env.do(t, http.MethodPost, "/api/admin/tasks", body, env.adminToken)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s=%v: status = %d (%s)", tc.field, tc.value, rec.Code, rec.Body.String())
		}
		res := decode[models.ActionResult](t, rec)
		if res.OK || len(res.FieldErrors[tc.field]) == 0 {
			t.Fatalf("%s=%v: result = %+v", tc.field, tc.value, res)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/admin/tasks", nil, env.adminToken)
	if list := decode[listBody](t, rec); len(list.Tasks) != 0 {
		t.Fatalf("rejected bodies must not create tasks: %+v", list.Tasks)
	}
}
