package developer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growdev/growdevers-api/internal/query"
	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/storage/memory"
	"github.com/growdev/growdevers-api/internal/types"
	"github.com/growdev/growdevers-api/internal/validation"
)

// envelope mirrors response.Response with Data left raw for per-test decoding.
type envelope struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	store storage.Storage
	mux   *http.ServeMux
}

func newTestServer(t *testing.T, store storage.Storage, mode query.Mode, requireRegistered bool) *testServer {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /growdevers", GetList(store, mode))
	mux.HandleFunc("GET /growdevers/{id}", GetByID(store))
	mux.HandleFunc("POST /growdevers", New(store))
	mux.HandleFunc("PUT /growdevers/{id}", Update(store, requireRegistered))
	mux.HandleFunc("PATCH /growdevers/{id}", Toggle(store))
	mux.HandleFunc("DELETE /growdevers/{id}", Delete(store))
	return &testServer{store: store, mux: mux}
}

func (ts *testServer) do(t *testing.T, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (ts *testServer) seed(t *testing.T, devs ...types.Developer) []types.Developer {
	t.Helper()
	out := make([]types.Developer, 0, len(devs))
	for _, d := range devs {
		created, err := ts.store.CreateDeveloper(d)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func dataAs[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

var (
	ana   = types.Developer{Name: "Ana", Email: "ana@growdev.com", Age: 20, Registered: true}
	bruno = types.Developer{Name: "Bruno", Email: "bruno@gmail.com", Age: 35, Registered: false}
	carla = types.Developer{Name: "Carla", Email: "carla@growdev.com", Age: 42, Registered: true}
)

func TestCreateThenGet(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	existing := ts.seed(t, bruno)

	code, env := ts.do(t, http.MethodPost, "/growdevers",
		`{"name":"Ana","email":"a@x.com","age":20,"registered":true}`)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.OK)
	assert.Equal(t, MsgCreated, env.Message)

	created := dataAs[types.Developer](t, env)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, existing[0].ID, created.ID)
	assert.Equal(t, 20.0, created.Age)

	code, env = ts.do(t, http.MethodGet, "/growdevers/"+created.ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgFound, env.Message)
	assert.Equal(t, types.Developer{ID: created.ID, Name: "Ana", Email: "a@x.com", Age: 20, Registered: true},
		dataAs[types.Developer](t, env))
}

func TestCreateValidation(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"underage", `{"name":"Ana","email":"a@x.com","age":17,"registered":true}`, validation.MsgUnderage},
		{"missing name", `{"email":"a@x.com","age":20}`, validation.MsgNameMissing},
		{"empty body", ``, validation.MsgNameMissing},
		{"registered not bool", `{"name":"Ana","email":"a@x.com","age":20,"registered":"yes"}`, validation.MsgRegisteredInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := ts.do(t, http.MethodPost, "/growdevers", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.OK)
			assert.Equal(t, tt.msg, env.Message)
			assert.Empty(t, env.Data)
		})
	}

	n, err := ts.store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateMalformedJSON(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)

	code, env := ts.do(t, http.MethodPost, "/growdevers", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, MsgInvalidBody, env.Message)
	assert.NotEmpty(t, env.Error)
}

func TestGetUnknownID(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	ts.seed(t, ana)

	code, env := ts.do(t, http.MethodGet, "/growdevers/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.OK)
	assert.Equal(t, MsgNotFound, env.Message)
	assert.Empty(t, env.Data)
}

func TestList(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	devs := ts.seed(t, ana, bruno, carla)

	code, env := ts.do(t, http.MethodGet, "/growdevers", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgListed, env.Message)
	assert.Equal(t, devs, dataAs[[]types.Developer](t, env))

	code, env = ts.do(t, http.MethodGet, "/growdevers?age=30", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, devs[1:], dataAs[[]types.Developer](t, env))

	// Last filter wins: name is ignored once age is applied.
	code, env = ts.do(t, http.MethodGet, "/growdevers?name=Ana&age=30", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, devs[1:], dataAs[[]types.Developer](t, env))

	code, env = ts.do(t, http.MethodGet, "/growdevers?email=nobody@x.com", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListIntersect(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Intersect, true)
	devs := ts.seed(t, ana, bruno, carla)

	code, env := ts.do(t, http.MethodGet, "/growdevers?email_includes=growdev&age=30", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, devs[2:], dataAs[[]types.Developer](t, env))
}

func TestListInvalidParams(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)

	code, env := ts.do(t, http.MethodGet, "/growdevers?foo=bar", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.OK)
	assert.Equal(t, MsgInvalidParams, env.Message)

	code, _ = ts.do(t, http.MethodGet, "/growdevers?foo=bar&registered=true", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestUpdate(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	devs := ts.seed(t, ana)

	code, env := ts.do(t, http.MethodPut, "/growdevers/"+devs[0].ID,
		`{"name":"Ana Maria","email":"am@x.com","age":21,"registered":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, MsgUpdated, env.Message)
	assert.Equal(t, types.Developer{ID: devs[0].ID, Name: "Ana Maria", Email: "am@x.com", Age: 21, Registered: true},
		dataAs[types.Developer](t, env))

	stored, err := ts.store.GetDeveloperByID(devs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", stored.Name)
}

func TestUpdateOrdering(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	valid := `{"name":"X","email":"x@x.com","age":30,"registered":true}`

	// Unknown id with a valid payload is a 404.
	code, env := ts.do(t, http.MethodPut, "/growdevers/missing", valid)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, MsgNotFound, env.Message)

	// Unknown id with an invalid payload fails validation first.
	code, env = ts.do(t, http.MethodPut, "/growdevers/missing", `{"name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, validation.MsgEmailMissing, env.Message)
}

func TestUpdateRequiresRegistered(t *testing.T) {
	valid := `{"name":"Bruno","email":"b@x.com","age":36,"registered":true}`

	t.Run("gate on", func(t *testing.T) {
		ts := newTestServer(t, memory.New(), query.Override, true)
		devs := ts.seed(t, bruno)

		code, env := ts.do(t, http.MethodPut, "/growdevers/"+devs[0].ID, valid)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, validation.MsgNotRegistered, env.Message)

		stored, err := ts.store.GetDeveloperByID(devs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, devs[0], stored)
	})

	t.Run("gate off", func(t *testing.T) {
		ts := newTestServer(t, memory.New(), query.Override, false)
		devs := ts.seed(t, bruno)

		code, env := ts.do(t, http.MethodPut, "/growdevers/"+devs[0].ID, valid)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, dataAs[types.Developer](t, env).Registered)
	})
}

func TestToggleTwiceRestores(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	devs := ts.seed(t, ana)
	target := "/growdevers/" + devs[0].ID

	code, env := ts.do(t, http.MethodPatch, target, "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, dataAs[types.Developer](t, env).Registered)

	code, env = ts.do(t, http.MethodPatch, target, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, dataAs[types.Developer](t, env).Registered)

	code, env = ts.do(t, http.MethodPatch, "/growdevers/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, MsgNotFound, env.Message)
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t, memory.New(), query.Override, true)
	devs := ts.seed(t, ana, bruno)

	code, env := ts.do(t, http.MethodDelete, "/growdevers/"+devs[0].ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
	assert.Equal(t, MsgDeleted, env.Message)
	assert.Empty(t, env.Data)

	n, err := ts.store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	code, _ = ts.do(t, http.MethodGet, "/growdevers/"+devs[0].ID, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = ts.do(t, http.MethodDelete, "/growdevers/"+devs[0].ID, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, MsgNotFound, env.Message)
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f failingStore) ListDevelopers() ([]types.Developer, error) { return nil, f.err }
func (f failingStore) GetDeveloperByID(string) (types.Developer, error) {
	return types.Developer{}, f.err
}
func (f failingStore) CreateDeveloper(types.Developer) (types.Developer, error) {
	return types.Developer{}, f.err
}
func (f failingStore) UpdateDeveloperByID(string, types.Developer) (types.Developer, error) {
	return types.Developer{}, f.err
}
func (f failingStore) ToggleRegisteredByID(string) (types.Developer, error) {
	return types.Developer{}, f.err
}
func (f failingStore) DeleteDeveloperByID(string) error { return f.err }
func (f failingStore) Count() (int, error)              { return 0, f.err }

func TestInternalErrors(t *testing.T) {
	ts := newTestServer(t, failingStore{err: errors.New("disk on fire")}, query.Override, true)
	valid := `{"name":"Ana","email":"a@x.com","age":20}`

	tests := []struct {
		method, target, body, msg string
	}{
		{http.MethodGet, "/growdevers", "", MsgListFailed},
		{http.MethodGet, "/growdevers/x", "", MsgGetFailed},
		{http.MethodPost, "/growdevers", valid, MsgCreateFailed},
		{http.MethodPut, "/growdevers/x", valid, MsgUpdateFailed},
		{http.MethodPatch, "/growdevers/x", "", MsgUpdateFailed},
		{http.MethodDelete, "/growdevers/x", "", MsgDeleteFailed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			code, env := ts.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.False(t, env.OK)
			assert.Equal(t, tt.msg, env.Message)
			assert.Equal(t, "disk on fire", env.Error)
		})
	}
}
