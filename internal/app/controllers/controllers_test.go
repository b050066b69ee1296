package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"property-http-service/internal/app/routes"
	"property-http-service/internal/domain/services/container"
	"property-http-service/internal/error/code"
	"property-http-service/internal/infrastructure/cache"
	"property-http-service/internal/infrastructure/config"
	"property-http-service/internal/infrastructure/database"
	"property-http-service/internal/infrastructure/events"
	"property-http-service/internal/test/testdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) recorded() []events.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.ChangeEvent(nil), p.events...)
}

type server struct {
	t      *testing.T
	router *gin.Engine
	pool   *database.ConnectionPool
	token  string
}

func testConfig() *config.Config {
	return &config.Config{RateLimitRPS: 1000, RateLimitBurst: 1000}
}

func newServer(t *testing.T, cfg *config.Config, opts ...container.Option) *server {
	t.Helper()
	pool := testdb.Open(t)
	c := container.NewServiceContainer(pool, cfg, zap.NewNop(), opts...)
	return &server{t: t, router: routes.SetupRouter(c), pool: pool}
}

func (s *server) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

type errorBody struct {
	Error  string `json:"error"`
	Code   int    `json:"code"`
	Fields []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"fields"`
}

// seed 创建物业、房间、租户和租约各一条
func (s *server) seed() {
	s.t.Helper()
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood","address":"1 Elm St"}`).Code)
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/apartments", `{"property_id":1,"apartment_number":"A-101","apartment_type":"studio"}`).Code)
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/tenants", `{"name":"Jane Roe","id_passport_number":"P1234567"}`).Code)
	require.Equal(s.t, http.StatusCreated, s.do(http.MethodPost, "/api/tenancies",
		`{"apartment_id":1,"tenant_id":1,"start_date":"2024-01-01","rent_amount":1200,"deposit_amount":2400}`).Code)
}

func TestCreatePropertyThenGetReturnsNullOptionals(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood","address":"1 Elm St"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "Property created", created["message"])
	assert.EqualValues(t, 1, created["property_id"])

	w = s.do(http.MethodGet, "/api/properties/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var property map[string]interface{}
	decode(t, w, &property)
	assert.Equal(t, "Oakwood", property["name"])
	assert.Equal(t, "1 Elm St", property["address"])
	assert.Contains(t, property, "description")
	assert.Nil(t, property["description"])
	assert.Contains(t, property, "conservancy_fee")
	assert.Nil(t, property["conservancy_fee"])
}

func TestListPropertiesEmptyIsArray(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreatePropertyMissingAddress(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, "Name and address are required", body.Error)
	assert.Equal(t, code.ErrPropertyInvalid, body.Code)
}

func TestUpdateAndDeleteProperty(t *testing.T) {
	s := newServer(t, testConfig())
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood","address":"1 Elm St"}`).Code)

	w := s.do(http.MethodPut, "/api/properties/1", `{"name":"Oakwood Court","address":"1 Elm St","conservancy_fee":150.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Property updated"}`, w.Body.String())

	var property map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/properties/1", ""), &property)
	assert.Equal(t, "Oakwood Court", property["name"])
	assert.EqualValues(t, 150.5, property["conservancy_fee"])

	w = s.do(http.MethodDelete, "/api/properties/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Property deleted"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/properties/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotFoundResponses(t *testing.T) {
	s := newServer(t, testConfig())

	cases := []struct {
		method, path, body, message string
	}{
		{http.MethodGet, "/api/properties/42", "", "Property not found"},
		{http.MethodPut, "/api/properties/42", `{"name":"x","address":"y"}`, "Property not found"},
		{http.MethodGet, "/api/apartments/42", "", "Apartment not found"},
		{http.MethodDelete, "/api/tenants/42", "", "Tenant not found"},
		{http.MethodGet, "/api/tenancies/42", "", "Tenancy not found"},
		{http.MethodGet, "/api/tenant-move-history/42", "", "Tenancy move history not found"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := s.do(tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusNotFound, w.Code)
			var body errorBody
			decode(t, w, &body)
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestInvalidIDs(t *testing.T) {
	s := newServer(t, testConfig())

	for _, path := range []string{"/api/properties/abc", "/api/apartments/0", "/api/tenants/-3", "/api/tenancies/1.5", "/api/move-history/x"} {
		w := s.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		var body errorBody
		decode(t, w, &body)
		assert.Equal(t, code.ErrInvalidID, body.Code, path)
	}
}

func TestMalformedBody(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodPost, "/api/tenants", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, code.ErrBind, body.Code)
	assert.True(t, strings.HasPrefix(body.Error, "Invalid request body"), body.Error)
}

func TestApartmentTypeRejected(t *testing.T) {
	s := newServer(t, testConfig())
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood","address":"1 Elm St"}`).Code)

	w := s.do(http.MethodPost, "/api/apartments", `{"property_id":1,"apartment_number":"A-101","apartment_type":"penthouse"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, "Invalid apartment type", body.Error)

	w = s.do(http.MethodPost, "/api/apartments", `{"property_id":1,"apartment_type":"penthouse"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "Property ID and apartment number are required", body.Error)
}

func TestTenancyMissingRentLeavesStoreUnchanged(t *testing.T) {
	s := newServer(t, testConfig())
	s.seed()

	var before []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenancies", ""), &before)

	w := s.do(http.MethodPost, "/api/tenancies", `{"apartment_id":1,"tenant_id":1,"start_date":"2024-02-01","deposit_amount":2400}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, code.ErrTenancyInvalid, body.Code)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "rent_amount", body.Fields[0].Field)

	var after []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenancies", ""), &after)
	assert.Len(t, after, len(before))
}

func TestTenancyRoundTrip(t *testing.T) {
	s := newServer(t, testConfig())
	s.seed()

	var tenancy map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenancies/1", ""), &tenancy)
	assert.Equal(t, "2024-01-01", tenancy["start_date"])
	assert.Nil(t, tenancy["end_date"])
	assert.EqualValues(t, 1200, tenancy["rent_amount"])
	assert.EqualValues(t, 1, tenancy["active"])

	w := s.do(http.MethodPut, "/api/tenancies/1",
		`{"apartment_id":1,"tenant_id":1,"start_date":"2024-01-01","end_date":"2024-06-30","rent_amount":1200,"deposit_amount":2400,"active":false,"final_balance":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Tenancy updated"}`, w.Body.String())

	decode(t, s.do(http.MethodGet, "/api/tenancies/1", ""), &tenancy)
	assert.Equal(t, "2024-06-30", tenancy["end_date"])
	assert.EqualValues(t, 0, tenancy["active"])
	assert.EqualValues(t, 0, tenancy["final_balance"])
}

func TestMalformedDateRejected(t *testing.T) {
	s := newServer(t, testConfig())
	s.seed()

	for _, date := range []string{"2024-01-01zzz", "2024-02-30", "01/02/2024"} {
		w := s.do(http.MethodPost, "/api/tenancies",
			`{"apartment_id":1,"tenant_id":1,"start_date":"`+date+`","rent_amount":1200,"deposit_amount":2400}`)
		require.Equal(t, http.StatusBadRequest, w.Code, date)
		var body errorBody
		decode(t, w, &body)
		assert.Equal(t, code.ErrBind, body.Code, date)
	}

	var tenancies []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenancies", ""), &tenancies)
	assert.Len(t, tenancies, 1)
}

func TestForeignKeyViolations(t *testing.T) {
	s := newServer(t, testConfig())
	s.seed()

	// 被房间引用的物业不能删除
	w := s.do(http.MethodDelete, "/api/properties/1", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, code.ErrDatabase, body.Code)
	assert.Contains(t, body.Error, "FOREIGN KEY constraint failed")
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/properties/1", "").Code)

	// 被租约引用的租户同样不能删除
	w = s.do(http.MethodDelete, "/api/tenants/1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// 房间不存在时不能创建租约
	w = s.do(http.MethodPost, "/api/tenancies",
		`{"apartment_id":99,"tenant_id":1,"start_date":"2024-03-01","rent_amount":1200,"deposit_amount":2400}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	decode(t, w, &body)
	assert.Contains(t, body.Error, "FOREIGN KEY constraint failed")

	var tenancies []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenancies", ""), &tenancies)
	assert.Len(t, tenancies, 1)

	// 先删除子记录后可以删除
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/tenancies/1", "").Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/apartments/1", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/properties/1", "").Code)
}

func TestMoveHistoryRoutes(t *testing.T) {
	s := newServer(t, testConfig())
	s.seed()

	var rows []map[string]interface{}
	decode(t, s.do(http.MethodGet, "/api/tenant-move-history", ""), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Roe", rows[0]["tenant_name"])
	assert.Equal(t, "A-101", rows[0]["apartment_number"])
	assert.Equal(t, "Oakwood", rows[0]["property_name"])
	assert.Equal(t, "2024-01-01", rows[0]["move_in_date"])
	assert.Nil(t, rows[0]["move_out_date"])
	assert.Equal(t, "Active", rows[0]["tenancy_status"])

	var row map[string]interface{}
	w := s.do(http.MethodGet, "/api/move-history/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &row)
	assert.EqualValues(t, 1, row["tenancy_id"])
}

func TestStoreFailureSurfacesMessage(t *testing.T) {
	s := newServer(t, testConfig())
	require.NoError(t, s.pool.Close())

	w := s.do(http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, code.ErrDatabase, body.Code)
	assert.Contains(t, body.Error, "database is closed")

	w = s.do(http.MethodGet, "/api/test-db", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var clock map[string]interface{}
	decode(t, w, &clock)
	assert.Equal(t, false, clock["success"])
	assert.Contains(t, clock["error"], "database is closed")

	w = s.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodGet, "/api/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/test-db", "")
	require.Equal(t, http.StatusOK, w.Code)
	var clock struct {
		Success bool `json:"success"`
		Res     []struct {
			CurrentTime string `json:"current_time"`
		} `json:"res"`
	}
	decode(t, w, &clock)
	assert.True(t, clock.Success)
	require.Len(t, clock.Res, 1)
	assert.NotEmpty(t, clock.Res[0].CurrentTime)
}

func TestWritesPublishChangeEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	s := newServer(t, testConfig(), container.WithPublisher(publisher))

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood","address":"1 Elm St"}`).Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/properties", `{"name":"Oakwood"}`).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/properties/1", "").Code)

	recorded := publisher.recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, "property", recorded[0].Entity)
	assert.Equal(t, events.ActionCreated, recorded[0].Action)
	assert.EqualValues(t, 1, recorded[0].ID)
	assert.Equal(t, events.ActionDeleted, recorded[1].Action)
}

func TestResponseCacheInvalidatedByWrites(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = time.Minute
	s := newServer(t, cfg, container.WithCache(cache.NewMemoryStore()))
	s.seed()

	w := s.do(http.MethodGet, "/api/tenant-move-history", "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w = s.do(http.MethodGet, "/api/tenant-move-history", "")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	// 修改租户姓名后, 搬迁记录不能返回旧数据
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/tenants/1", `{"name":"Jane Doe","id_passport_number":"P1234567"}`).Code)

	w = s.do(http.MethodGet, "/api/tenant-move-history", "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var rows []map[string]interface{}
	decode(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0]["tenant_name"])
}

func TestAuthRequiredWhenEnabled(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.JWTSecretKey = "test-secret"
	cfg.JWTExpiration = time.Hour
	cfg.AdminUsername = "admin"
	cfg.AdminPasswordHash = string(hash)
	s := newServer(t, cfg)

	w := s.do(http.MethodGet, "/api/properties", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	s.token = login.Token
	w = s.do(http.MethodGet, "/api/properties", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 健康检查不需要令牌
	s.token = ""
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/ping", "").Code)
}

func TestLoginRouteAbsentWhenAuthDisabled(t *testing.T) {
	s := newServer(t, testConfig())

	w := s.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/properties", "").Code)
}
