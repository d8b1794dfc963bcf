package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/database"
	"github.com/blues/fgs/internal/engine"
	"github.com/blues/fgs/internal/router"
	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testAdmin       = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	testOwner       = "0x0000000000000000000000000000000000000101"
	testContributor = "0x0000000000000000000000000000000000000102"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	eng, cap := engine.New(engine.NewMemoryStore(), engine.NewTokenBook(), engine.SystemClock(), engine.NopSink())
	svc := service.NewLocalSettlement(eng, cap, testAdmin, db)

	// 出资方需要余额
	units, err := service.ToUnits("5000")
	require.NoError(t, err)
	require.NoError(t, eng.Mint(cap, testContributor, units))

	cfg := &config.Config{
		Engine: config.EngineConfig{Mode: "local", Admin: testAdmin},
	}
	return router.Setup(svc, db, nil, cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMintEndpoint(t *testing.T) {
	r := newTestRouter(t)
	fresh := "0x0000000000000000000000000000000000000103"

	// 管理员铸币
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/admin/mint", gin.H{
		"key":     testAdmin,
		"address": fresh,
		"amount":  "800",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/accounts/"+fresh+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"800"`)

	// 铸入的余额立即可用于出资
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"key":          testAdmin,
		"projectId":    1,
		"owner":        testOwner,
		"fundingGoal":  "1000",
		"durationDays": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", gin.H{
		"key":    fresh,
		"amount": "800",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 非管理员不得铸币
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/mint", gin.H{
		"key":     testContributor,
		"address": fresh,
		"amount":  "800",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"key":          testAdmin,
		"projectId":    1,
		"owner":        testOwner,
		"fundingGoal":  "1000",
		"durationDays": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	var tx struct {
		TxHash string `json:"txHash"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tx))
	assert.NotEmpty(t, tx.TxHash)

	// 重复ID冲突
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"key":          testAdmin,
		"projectId":    1,
		"owner":        testOwner,
		"fundingGoal":  "1000",
		"durationDays": 30,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 非管理员不得创建
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"key":          testContributor,
		"projectId":    2,
		"owner":        testOwner,
		"fundingGoal":  "1000",
		"durationDays": 30,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 出资，越过目标
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/projects/1/fund", gin.H{
		"key":    testContributor,
		"amount": "1000",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/projects/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var details service.ProjectDetails
	require.NoError(t, json.Unmarshal(resp.Data, &details))
	assert.Equal(t, "1000", details.CurrentFunding)
	assert.True(t, details.Funded)

	// 出资记录镜像
	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/projects/1/contributions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), testContributor)

	// 未知项目
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/projects/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVotingEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{
		"key":          testAdmin,
		"projectId":    1,
		"owner":        testOwner,
		"fundingGoal":  "1000",
		"durationDays": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions", gin.H{
		"key":          testAdmin,
		"sessionId":    10,
		"projectId":    1,
		"durationDays": 7,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 投票（出资方仍持有余额）
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions/10/vote", gin.H{
		"key":     testContributor,
		"inFavor": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 重复投票冲突
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions/10/vote", gin.H{
		"key":     testContributor,
		"inFavor": false,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 无余额账户无投票权
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions/10/vote", gin.H{
		"key":     testOwner,
		"inFavor": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 窗口未关不得终局
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions/10/finalize", gin.H{
		"key": testContributor,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/sessions/10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var details service.SessionDetails
	require.NoError(t, json.Unmarshal(resp.Data, &details))
	assert.Equal(t, int64(1), details.ProjectID)
	assert.Equal(t, "5000", details.YesVotes)
	assert.False(t, details.Finalized)

	// 缺少必填字段
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/sessions/10/vote", gin.H{
		"inFavor": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 投票记录镜像
	w, resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d/votes", 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), testContributor)
}
