package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"gestionale/internal/domain"
	"gestionale/internal/present/rest/middleware"
	"gestionale/internal/service"
	"gestionale/internal/usecase"
)

// --- mocks ---

type mockAssocRepo struct {
	rows   []domain.Association
	nextID int64
}

func (m *mockAssocRepo) List(ctx context.Context) ([]domain.Association, error) {
	out := make([]domain.Association, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockAssocRepo) Create(ctx context.Context, assoc domain.Association) (int64, error) {
	m.nextID++
	assoc.ID = m.nextID
	assoc.Referenti = []domain.PersonRef{}
	assoc.AltriSoggetti = []domain.PersonRef{}
	m.rows = append(m.rows, assoc)
	return assoc.ID, nil
}

func (m *mockAssocRepo) Update(ctx context.Context, assoc domain.Association) error {
	for i := range m.rows {
		if m.rows[i].ID == assoc.ID {
			m.rows[i] = assoc
		}
	}
	return nil
}

func (m *mockAssocRepo) Delete(ctx context.Context, id int64) error {
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

type mockContactRepo struct{}

func (m *mockContactRepo) CreateReferente(ctx context.Context, contact domain.Contact) (int64, error) {
	return 1, nil
}
func (m *mockContactRepo) UpdateReferente(ctx context.Context, id int64, nome string) error {
	return nil
}
func (m *mockContactRepo) DeleteReferente(ctx context.Context, id int64) error { return nil }
func (m *mockContactRepo) CreateAltroSoggetto(ctx context.Context, contact domain.Contact) (int64, error) {
	return 1, nil
}
func (m *mockContactRepo) UpdateAltroSoggetto(ctx context.Context, id int64, nome string) error {
	return nil
}
func (m *mockContactRepo) DeleteAltroSoggetto(ctx context.Context, id int64) error { return nil }
func (m *mockContactRepo) ListPersone(ctx context.Context) ([]domain.Person, error) {
	return []domain.Person{}, nil
}
func (m *mockContactRepo) ListPersoneByAssociation(ctx context.Context, associationID int64) ([]domain.Person, error) {
	return []domain.Person{}, nil
}

type mockMeetingRepo struct {
	meetings map[int64]domain.Meeting
	nextID   int64
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{meetings: map[int64]domain.Meeting{}}
}

func (m *mockMeetingRepo) List(ctx context.Context) ([]domain.Meeting, error) {
	out := []domain.Meeting{}
	for _, meeting := range m.meetings {
		out = append(out, meeting)
	}
	return out, nil
}

func (m *mockMeetingRepo) Get(ctx context.Context, id int64) (domain.Meeting, error) {
	meeting, ok := m.meetings[id]
	if !ok {
		return domain.Meeting{}, domain.NotFoundError{Resource: "agora"}
	}
	return meeting, nil
}

func (m *mockMeetingRepo) Create(ctx context.Context, meeting domain.Meeting) (int64, error) {
	m.nextID++
	meeting.ID = m.nextID
	m.meetings[meeting.ID] = meeting
	return meeting.ID, nil
}

func (m *mockMeetingRepo) Update(ctx context.Context, meeting domain.Meeting) error {
	if _, ok := m.meetings[meeting.ID]; ok {
		m.meetings[meeting.ID] = meeting
	}
	return nil
}

func (m *mockMeetingRepo) Delete(ctx context.Context, id int64) error {
	delete(m.meetings, id)
	return nil
}

func (m *mockMeetingRepo) ListPresenze(ctx context.Context, meetingID int64) ([]domain.Attendee, error) {
	return []domain.Attendee{}, nil
}

func (m *mockMeetingRepo) CreatePresenza(ctx context.Context, attendee domain.Attendee) (int64, error) {
	return 1, nil
}

func (m *mockMeetingRepo) DeletePresenza(ctx context.Context, id int64) error { return nil }

type mockAttachmentStore struct {
	files map[string]bool
}

func (s *mockAttachmentStore) Save(kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error) {
	path := "/uploads/" + string(kind) + "/" + originalName
	s.files[path] = true
	return path, nil
}

func (s *mockAttachmentStore) Replace(oldPath string, kind domain.AttachmentKind, content io.Reader, originalName string, dateHint string) (string, error) {
	s.Remove(oldPath)
	return s.Save(kind, content, originalName, dateHint)
}

func (s *mockAttachmentStore) Remove(path string) {
	delete(s.files, path)
}

type mockExportRepo struct{}

func (m *mockExportRepo) ListTables(ctx context.Context) ([]string, error) { return nil, nil }
func (m *mockExportRepo) DumpTable(ctx context.Context, name string) (domain.TableDump, error) {
	return domain.TableDump{}, nil
}
func (m *mockExportRepo) Snapshot(ctx context.Context, destPath string) error { return nil }

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	user, ok := m.users[email]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "utente"}
	}
	return user, nil
}

// --- fixture ---

type fixture struct {
	e        *echo.Echo
	assoc    *mockAssocRepo
	meetings *mockMeetingRepo
	store    *mockAttachmentStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	users := &mockUserRepo{users: map[string]domain.User{
		"admin@test.it": {Email: "admin@test.it", PasswordHash: string(hash), Nome: "Amministratore"},
	}}

	auth := service.NewAuthService(users, service.NewMemorySessionStore(time.Minute), time.Minute)

	assocRepo := &mockAssocRepo{}
	meetingRepo := newMockMeetingRepo()
	store := &mockAttachmentStore{files: map[string]bool{}}
	h := NewHandler(
		auth,
		usecase.NewAssociationUsecase(assocRepo),
		usecase.NewContactUsecase(&mockContactRepo{}),
		usecase.NewMeetingUsecase(meetingRepo, store),
		usecase.NewExportUsecase(&mockExportRepo{}, time.Second),
	)

	e := echo.New()
	h.RegisterRoutes(e, middleware.NewAuthMiddleware(auth))

	return &fixture{e: e, assoc: assocRepo, meetings: meetingRepo, store: store}
}

func (f *fixture) login(t *testing.T) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": "admin@test.it", "password": "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", res.Code, res.Body)
	}
	for _, cookie := range res.Result().Cookies() {
		if cookie.Name == service.SessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

// --- tests ---

func TestLoginIssuesCookieAndName(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@test.it", "password": "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var payload struct {
		Success bool   `json:"success"`
		Nome    string `json:"nome"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if !payload.Success || payload.Nome != "Amministratore" {
		t.Fatalf("unexpected login payload %+v", payload)
	}
}

func TestLoginFailuresShareShape(t *testing.T) {
	f := newFixture(t)

	attempt := func(email, password string) (int, string) {
		body, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		res := httptest.NewRecorder()
		f.e.ServeHTTP(res, req)
		return res.Code, res.Body.String()
	}

	wrongPassCode, wrongPassBody := attempt("admin@test.it", "wrong")
	unknownCode, unknownBody := attempt("ghost@test.it", "admin123")

	if wrongPassCode != http.StatusUnauthorized || unknownCode != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassCode, unknownCode)
	}
	if wrongPassBody != unknownBody {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPassBody, unknownBody)
	}
}

func TestProtectedRoutesRejectMissingSession(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(map[string]string{"SOGGETTO": "Test"})
	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/associazioni", nil),
		httptest.NewRequest(http.MethodPost, "/api/associazioni", bytes.NewReader(body)),
		httptest.NewRequest(http.MethodGet, "/api/agora", nil),
		httptest.NewRequest(http.MethodGet, "/api/backup/excel", nil),
	}

	for _, req := range requests {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		res := httptest.NewRecorder()
		f.e.ServeHTTP(res, req)

		if res.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", req.Method, req.URL.Path, res.Code)
		}
	}

	if len(f.assoc.rows) != 0 {
		t.Fatal("unauthorized request mutated state")
	}
}

func TestAssociationRoundTrip(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	create, _ := json.Marshal(map[string]string{
		"SOGGETTO":              "Test",
		"MAIL":                  "a@b.it",
		"PEC":                   "",
		"TAVOLO":                "X",
		"DIRETTIVO_DELEGAZIONE": "N",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/associazioni", bytes.NewReader(create))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("create failed with %d: %s", res.Code, res.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/associazioni", nil)
	req.AddCookie(cookie)
	res = httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("list failed with %d", res.Code)
	}

	var listed []domain.Association
	if err := json.Unmarshal(res.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one association, got %d", len(listed))
	}
	got := listed[0]
	if got.Soggetto != "Test" || got.Mail != "a@b.it" || got.Pec != "" || got.Tavolo != "X" || got.DirettivoDelegazione != "N" {
		t.Fatalf("fields did not round-trip: %+v", got)
	}
	if len(got.Referenti) != 0 || len(got.AltriSoggetti) != 0 {
		t.Fatalf("expected empty contact arrays: %+v", got)
	}
}

func TestDeleteMissingAssociationReportsSuccess(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/associazioni/999", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if !payload.Success {
		t.Fatalf("expected idempotent success, got %s", res.Body)
	}
}

func TestLogoutInvalidatesCookie(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("logout failed with %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/associazioni", nil)
	req.AddCookie(cookie)
	res = httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected dead session to be rejected, got %d", res.Code)
	}
}

func TestAgoraMultipartLifecycle(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	agoraForm := func(fields map[string]string, fileField, fileName string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		for key, value := range fields {
			form.WriteField(key, value)
		}
		if fileField != "" {
			part, err := form.CreateFormFile(fileField, fileName)
			if err != nil {
				t.Fatal(err)
			}
			part.Write([]byte("contenuto verbale"))
		}
		form.Close()
		return &buf, form.FormDataContentType()
	}

	body, contentType := agoraForm(map[string]string{
		"Data":   "2024-03-05",
		"Evento": "Assemblea",
		"ODG":    "Bilancio",
	}, "verbale", "verbale assemblea.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/agora", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("create failed with %d: %s", res.Code, res.Body)
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	stored := f.meetings.meetings[created.ID]
	if stored.Evento != "Assemblea" || stored.Verbale == "" {
		t.Fatalf("unexpected stored meeting: %+v", stored)
	}
	if !f.store.files[stored.Verbale] {
		t.Fatalf("verbale file not stored: %q", stored.Verbale)
	}

	body, contentType = agoraForm(map[string]string{
		"Data":          "2024-03-05",
		"Evento":        "Assemblea",
		"ODG":           "Bilancio rivisto",
		"deleteVerbale": "true",
	}, "", "")
	req = httptest.NewRequest(http.MethodPut, "/api/agora/"+strconv.FormatInt(created.ID, 10), body)
	req.Header.Set(echo.HeaderContentType, contentType)
	req.AddCookie(cookie)
	res = httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("update failed with %d: %s", res.Code, res.Body)
	}

	oldVerbale := stored.Verbale
	stored = f.meetings.meetings[created.ID]
	if stored.Verbale != "" || stored.ODG != "Bilancio rivisto" {
		t.Fatalf("expected verbale cleared and ODG updated: %+v", stored)
	}
	if f.store.files[oldVerbale] {
		t.Fatal("expected old verbale file removed")
	}
}

func TestExportEmptyStoreAnswersNoData(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/backup/excel", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	f.e.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty store, got %d", res.Code)
	}
}
