package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youcode/tricol-fournisseurs/internal/application/service"
	"github.com/youcode/tricol-fournisseurs/internal/config"
	"github.com/youcode/tricol-fournisseurs/internal/infrastructure/database"
	"github.com/youcode/tricol-fournisseurs/internal/infrastructure/repository"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/handler"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/middleware"
	"github.com/youcode/tricol-fournisseurs/pkg/utils"
)

const basePath = "/api/v1/fournisseurs"

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type fournisseurJSON struct {
	ID        uint64    `json:"id"`
	Societe   string    `json:"societe"`
	Email     string    `json:"email"`
	Ville     string    `json:"ville"`
	ICE       string    `json:"ice"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	jwt    *utils.JWTManager
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		App: config.AppConfig{Name: "tricol-fournisseurs"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour},
	}
	if mutate != nil {
		mutate(cfg)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	svc := service.NewFournisseurService(repository.NewFournisseurRepository(db))
	router := Setup(&Handlers{
		Fournisseur: handler.NewFournisseurHandler(svc),
		Health:      handler.NewHealthHandler(cfg.App.Name, nil),
	}, &Deps{
		Cfg:             cfg,
		JWTManager:      jwtManager,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		Metrics:         middleware.NewHTTPMetrics(),
	})

	return &testServer{t: t, router: router, jwt: jwtManager}
}

func (s *testServer) do(method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) create(body string) fournisseurJSON {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, basePath, body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var f fournisseurJSON
	require.NoError(s.t, json.Unmarshal(env.Data, &f))
	return f
}

func supplierBody(societe, email, ville, ice string) string {
	return fmt.Sprintf(`{
		"societe": %q,
		"adresse": "12 Rue Zerktouni",
		"contact": "Ahmed Benali",
		"email": %q,
		"telephone": "+212522334455",
		"ville": %q,
		"ice": %q
	}`, societe, email, ville, ice)
}

func decodeList(t *testing.T, env envelope) []fournisseurJSON {
	t.Helper()
	var list []fournisseurJSON
	require.NoError(t, json.Unmarshal(env.Data, &list))
	return list
}

func names(list []fournisseurJSON) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Societe)
	}
	return out
}

func TestCreateAndGet(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodPost, basePath, supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Fournisseur créé avec succès", env.Message)
	assert.Nil(t, env.Errors)

	var created fournisseurJSON
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotZero(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	rec, env = s.do(http.MethodGet, fmt.Sprintf("%s/%d", basePath, created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got fournisseurJSON
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Textile Maroc", got.Societe)
	assert.Equal(t, "001234567000089", got.ICE)
}

func TestCreateDuplicateEmailIsConflict(t *testing.T) {
	s := newTestServer(t, nil)
	s.create(supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089"))

	rec, env := s.do(http.MethodPost, basePath, supplierBody("Autre", "contact@textile.ma", "Rabat", "009999999999999"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Un fournisseur avec cet email existe déjà", env.Message)

	_, env = s.do(http.MethodGet, basePath+"/count", "")
	assert.JSONEq(t, "1", string(env.Data))
}

func TestCreateValidationErrors(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodPost, basePath, `{"societe":"A","email":"pas-un-email","telephone":"12","ice":"123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Erreurs de validation", env.Message)
	assert.Equal(t, "La société doit contenir entre 2 et 100 caractères", env.Errors["societe"])
	assert.Equal(t, "L'email doit être valide", env.Errors["email"])
	assert.Equal(t, "Le téléphone doit être valide (10-15 chiffres)", env.Errors["telephone"])
	assert.Equal(t, "L'ICE doit contenir exactement 15 chiffres", env.Errors["ice"])
	assert.Contains(t, env.Errors, "adresse")
	assert.Contains(t, env.Errors, "ville")

	rec, env = s.do(http.MethodPost, basePath, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "body")
}

func TestGetUnknownAndInvalidID(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodGet, basePath+"/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fournisseur non trouvé avec l'ID: 999", env.Message)
	assert.Equal(t, "null", string(env.Data))

	rec, _ = s.do(http.MethodGet, basePath+"/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, basePath+"/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fournisseur non trouvé avec l'ID: 0", env.Message)

	rec, _ = s.do(http.MethodDelete, basePath+"/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodDelete, basePath+"/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.create(supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089"))
	path := fmt.Sprintf("%s/%d", basePath, created.ID)

	rec, env := s.do(http.MethodPut, path, supplierBody("Textile Maroc", "contact@textile.ma", "Rabat", "001234567000089"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated fournisseurJSON
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Rabat", updated.Ville)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	rec, env = s.do(http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fournisseur supprimé avec succès", env.Message)

	rec, _ = s.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodPut, basePath+"/999", supplierBody("Textile Maroc", "x@textile.ma", "Rabat", "001234567000089"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQueryPrecedence(t *testing.T) {
	s := newTestServer(t, nil)
	s.create(supplierBody("Zeta Textile", "z@zeta.ma", "Casablanca", "000000000000001"))
	s.create(supplierBody("Alpha Fils", "a@alpha.ma", "Rabat", "000000000000002"))
	s.create(supplierBody("Beta Coton", "b@beta.ma", "Casablanca", "000000000000003"))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Zeta Textile", "Alpha Fils", "Beta Coton"}},
		{"search", "?search=textile", []string{"Zeta Textile"}},
		{"search wins over ville", "?search=alpha&ville=Casablanca", []string{"Alpha Fils"}},
		{"ville", "?ville=Casablanca", []string{"Zeta Textile", "Beta Coton"}},
		{"ville wins over sortBy", "?ville=Rabat&sortBy=nom", []string{"Alpha Fils"}},
		{"sort by name", "?sortBy=nom", []string{"Alpha Fils", "Beta Coton", "Zeta Textile"}},
		{"sort by societe", "?sortBy=SOCIETE", []string{"Alpha Fils", "Beta Coton", "Zeta Textile"}},
		{"sort by city", "?sortBy=ville", []string{"Beta Coton", "Zeta Textile", "Alpha Fils"}},
		{"unknown sort", "?sortBy=email", []string{"Zeta Textile", "Alpha Fils", "Beta Coton"}},
		{"blank search ignored", "?search=%20%20", []string{"Zeta Textile", "Alpha Fils", "Beta Coton"}},
		{"no match", "?search=inconnu", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodGet, basePath+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, names(decodeList(t, env)))
		})
	}
}

func TestCount(t *testing.T) {
	s := newTestServer(t, nil)
	s.create(supplierBody("Textile Maroc", "t@textile.ma", "Casablanca", "000000000000001"))
	s.create(supplierBody("Coton Nord", "c@coton.ma", "Tanger", "000000000000002"))

	_, env := s.do(http.MethodGet, basePath+"/count", "")
	assert.Equal(t, "Nombre total de fournisseurs", env.Message)
	assert.JSONEq(t, "2", string(env.Data))

	_, env = s.do(http.MethodGet, basePath+"/count?ville=Casablanca", "")
	assert.Equal(t, "Nombre de fournisseurs dans la ville Casablanca", env.Message)
	assert.JSONEq(t, "1", string(env.Data))
}

func TestLookupRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	s.create(supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089"))
	s.create(supplierBody("Coton Nord", "ventes@coton.ma", "Tanger", "009876543210000"))

	rec, env := s.do(http.MethodGet, basePath+"/ice/009876543210000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var byICE fournisseurJSON
	require.NoError(t, json.Unmarshal(env.Data, &byICE))
	assert.Equal(t, "Coton Nord", byICE.Societe)

	rec, _ = s.do(http.MethodGet, basePath+"/ice/000000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, basePath+"/societe/Textile%20Maroc", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, env = s.do(http.MethodGet, basePath+"/ville/Tanger", "")
	assert.Equal(t, []string{"Coton Nord"}, names(decodeList(t, env)))

	_, env = s.do(http.MethodGet, basePath+"/domaine/textile.ma", "")
	assert.Equal(t, []string{"Textile Maroc"}, names(decodeList(t, env)))

	_, env = s.do(http.MethodGet, basePath+"/recherche?societe=nord", "")
	assert.Equal(t, []string{"Coton Nord"}, names(decodeList(t, env)))

	rec, _ = s.do(http.MethodGet, basePath+"/recherche", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, env = s.do(http.MethodGet, basePath+"/existe?email=ventes@coton.ma&ice=111111111111111", "")
	assert.JSONEq(t, `{"email":true,"ice":false}`, string(env.Data))
}

func TestWriteRoutesRequireTokenWhenJWTEnabled(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.JWT.Enabled = true })
	body := supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089")

	rec, _ := s.do(http.MethodPost, basePath, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, basePath, "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")

	token, err := s.jwt.GenerateAccessToken("achats", "")
	require.NoError(t, err)
	rec, _ = s.do(http.MethodPost, basePath, body, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotentCreate(t *testing.T) {
	s := newTestServer(t, nil)
	body := supplierBody("Textile Maroc", "contact@textile.ma", "Casablanca", "001234567000089")

	first, _ := s.do(http.MethodPost, basePath, body, middleware.IdempotencyKeyHeader, "create-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second, _ := s.do(http.MethodPost, basePath, body, middleware.IdempotencyKeyHeader, "create-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))

	_, env := s.do(http.MethodGet, basePath+"/count", "")
	assert.JSONEq(t, "1", string(env.Data))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, basePath, "")

	rec, _ := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metrics := httptest.NewRecorder()
	s.router.ServeHTTP(metrics, req)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `fournisseur_http_requests_total{method="GET",route="/api/v1/fournisseurs",status="200"} 1`)
}
