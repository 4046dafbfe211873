package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/clinicbill/internal/export"
	"github.com/xxxsen/clinicbill/internal/handler"
	"github.com/xxxsen/clinicbill/internal/kvstore"
	"github.com/xxxsen/clinicbill/internal/middleware"
	"github.com/xxxsen/clinicbill/internal/notify"
	"github.com/xxxsen/clinicbill/internal/pkg/errcode"
	"github.com/xxxsen/clinicbill/internal/pkg/jwt"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
	"github.com/xxxsen/clinicbill/internal/repo"
	"github.com/xxxsen/clinicbill/internal/service"
)

var fixedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, secret []byte) (http.Handler, kvstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kvstore.NewMemory()
	clock := timeutil.ClockFunc(func() time.Time { return fixedNow })
	views := service.NewSavedViewService(repo.NewSavedViewRepo(store),
		service.WithClock(clock),
		service.WithIDGenerator(service.NewSequenceGenerator("view-")),
		service.WithNotifier(notify.NewLog()),
	)
	exports := service.NewExportService(clock, notify.NewLog(), 16, time.Minute)

	deps := handler.RouterDeps{
		Views:     handler.NewSavedViewHandler(views),
		Export:    handler.NewExportHandler(exports),
		Options:   handler.NewOptionsHandler(),
		JWTSecret: secret,
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return engine, store
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func TestSavedViewsLifecycle(t *testing.T) {
	router, _ := setupRouter(t, nil)

	env := decode(t, do(t, router, http.MethodPost, "/api/v1/views",
		`{"name":"  Visão Mensal Unimed ","profile":"financeiro","filters":{"period":"month","unit":"all","professional":"all","payer":"unimed"}}`))
	require.Equal(t, 0, env.Code)
	var created struct {
		View struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			CreatedAt string `json:"createdAt"`
		} `json:"view"`
		Notices []notify.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "view-1", created.View.ID)
	require.Equal(t, "Visão Mensal Unimed", created.View.Name)
	require.Equal(t, "2025-06-30T12:00:00.000Z", created.View.CreatedAt)
	require.Len(t, created.Notices, 1)
	require.Equal(t, notify.LevelSuccess, created.Notices[0].Level)

	env = decode(t, do(t, router, http.MethodGet, "/api/v1/views/view-1", ""))
	require.JSONEq(t, `{"filters":{"period":"month","unit":"all","professional":"all","payer":"unimed"},
		"notices":[{"level":"success","message":"Visão \"Visão Mensal Unimed\" carregada"}]}`, string(env.Data))

	env = decode(t, do(t, router, http.MethodGet, "/api/v1/views", ""))
	var listed struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed.Items, 1)

	env = decode(t, do(t, router, http.MethodDelete, "/api/v1/views/view-1", ""))
	require.Equal(t, 0, env.Code)

	env = decode(t, do(t, router, http.MethodGet, "/api/v1/views/view-1", ""))
	require.Equal(t, errcode.ErrNotFound, env.Code)
}

func TestSavedViewsRejectsBlankName(t *testing.T) {
	router, store := setupRouter(t, nil)
	env := decode(t, do(t, router, http.MethodPost, "/api/v1/views", `{"name":"   ","profile":"gestor"}`))
	require.Equal(t, errcode.ErrInvalid, env.Code)

	_, ok, err := store.Get(t.Context(), repo.SavedViewsKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSavedViewsCorruptedSlot(t *testing.T) {
	router, store := setupRouter(t, nil)
	require.NoError(t, store.Set(t.Context(), repo.SavedViewsKey, "{not json"))

	env := decode(t, do(t, router, http.MethodGet, "/api/v1/views", ""))
	require.Equal(t, 0, env.Code)
	require.JSONEq(t, `{"items":[],"notices":[{"level":"error","message":"Erro ao carregar visões salvas"}]}`, string(env.Data))
}

func TestFilterOptions(t *testing.T) {
	router, _ := setupRouter(t, nil)
	env := decode(t, do(t, router, http.MethodGet, "/api/v1/filters/options", ""))
	require.Contains(t, string(env.Data), `"value":"unimed"`)
	require.Contains(t, string(env.Data), `"profiles"`)
}

func TestExportDatasetAttachment(t *testing.T) {
	router, _ := setupRouter(t, nil)
	resp := do(t, router, http.MethodGet, "/api/v1/export/denials?format=csv", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, export.ContentTypeCSV, resp.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="Negacoes_2025-06-30.csv"; filename*=UTF-8''Negacoes_2025-06-30.csv`, resp.Header().Get("Content-Disposition"))
	body := resp.Body.String()
	require.True(t, strings.HasPrefix(body, export.BOM+"Motivo,Quantidade,Valor,Percentual\n"))
	require.Contains(t, body, `Informação Incompleta,245,"R$ 18.500,00",25%`)
}

func TestExportDatasetUnknownFormat(t *testing.T) {
	router, _ := setupRouter(t, nil)
	env := decode(t, do(t, router, http.MethodGet, "/api/v1/export/aging?format=pdf", ""))
	require.Equal(t, errcode.ErrInvalid, env.Code)
}

func TestExportCustom(t *testing.T) {
	router, _ := setupRouter(t, nil)
	resp := do(t, router, http.MethodPost, "/api/v1/export?format=xls",
		`{"headers":["Pagador","Valor"],"rows":[["Clínica \"A\", Ltda",10.5]],"filename":"custom"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, export.ContentTypeSpreadsheet, resp.Header().Get("Content-Type"))
	require.Equal(t, export.BOM+"Pagador\tValor\n\"Clínica \"\"A\"\", Ltda\"\t10.5", resp.Body.String())

	env := decode(t, do(t, router, http.MethodPost, "/api/v1/export",
		`{"headers":["a","b"],"rows":[["only one"]],"filename":"bad"}`))
	require.Equal(t, errcode.ErrInvalid, env.Code)
}

func TestExportAccentedFilename(t *testing.T) {
	router, _ := setupRouter(t, nil)
	resp := do(t, router, http.MethodPost, "/api/v1/export",
		`{"headers":["Motivo"],"rows":[["Glosa"]],"filename":"Negações \"junho\""}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t,
		`attachment; filename="Negacoes _junho_.csv"; filename*=UTF-8''Nega%C3%A7%C3%B5es%20%22junho%22.csv`,
		resp.Header().Get("Content-Disposition"))
}

func TestExportDatasetRejectsUnknownPeriod(t *testing.T) {
	router, _ := setupRouter(t, nil)
	env := decode(t, do(t, router, http.MethodGet, "/api/v1/export/overview?period=month%7Call", ""))
	require.Equal(t, errcode.ErrInvalid, env.Code)
}

func TestAuthGuard(t *testing.T) {
	secret := []byte("segredo")
	router, _ := setupRouter(t, secret)

	env := decode(t, do(t, router, http.MethodGet, "/api/v1/views", ""))
	require.Equal(t, errcode.ErrUnauthorized, env.Code)

	token, err := jwt.GenerateToken("ana", "gestor", secret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/views", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, 0, decode(t, resp).Code)
}
