package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/service"
	"github.com/nominadocs/payslip-server/internal/testutil"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// stubEmployeeStore serves a fixed directory.
type stubEmployeeStore struct {
	employees map[string]model.Employee
}

func (s stubEmployeeStore) GetByCedula(_ context.Context, cedula string) (model.Employee, error) {
	if e, ok := s.employees[cedula]; ok {
		return e, nil
	}
	return model.Employee{}, model.ErrNotFound
}

func (s stubEmployeeStore) GetActiveByCedula(_ context.Context, cedula string) (model.Employee, error) {
	if e, ok := s.employees[cedula]; ok && e.IsActive {
		return e, nil
	}
	return model.Employee{}, model.ErrInactiveEmployee
}

func (s stubEmployeeStore) GetByCedulas(_ context.Context, cedulas []string) ([]model.Employee, error) {
	var out []model.Employee
	for _, c := range cedulas {
		if e, ok := s.employees[c]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T, store stubEmployeeStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := testutil.MakeNoopLogger()
	importSvc := service.NewImport(store, nil, logger)
	h := NewHandler(importSvc, nil, nil, stubPinger{}, logger)
	return h.Router("")
}

func TestPing(t *testing.T) {
	router := newTestRouter(t, stubEmployeeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"where":"/api"}`, w.Body.String())
}

func TestDBTest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := testutil.MakeNoopLogger()

	t.Run("reachable", func(t *testing.T) {
		h := NewHandler(nil, nil, nil, stubPinger{}, logger)
		w := httptest.NewRecorder()
		h.Router("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dbtest", nil))

		assert.JSONEq(t, `{"dbConnected":true}`, w.Body.String())
	})

	t.Run("unreachable", func(t *testing.T) {
		h := NewHandler(nil, nil, nil, stubPinger{err: fmt.Errorf("refused")}, logger)
		w := httptest.NewRecorder()
		h.Router("").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dbtest", nil))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["dbConnected"])
	})
}

func multipartRoster(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportDryRun(t *testing.T) {
	router := newTestRouter(t, stubEmployeeStore{employees: map[string]model.Employee{
		"87654321": {ID: 3, Cedula: "87654321", IsActive: true},
	}})

	csv := "Cedula,FirstName,LastName,Email,IsActive\n12345678,Ana,,,si\n87654321,,,,no\n"
	body, contentType := multipartRoster(t, csv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/import/dry-run", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK             bool               `json:"ok"`
		Mode           string             `json:"mode"`
		Total          int                `json:"total"`
		WillInsert     int                `json:"willInsert"`
		WillDeactivate int                `json:"willDeactivate"`
		Preview        []model.PreviewRow `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.OK)
	assert.Equal(t, "dry-run", resp.Mode)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.WillInsert)
	assert.Equal(t, 1, resp.WillDeactivate)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, model.ActionInsert, resp.Preview[0].Action)
	assert.Equal(t, model.ActionDeactivate, resp.Preview[1].Action)
}

func TestImportDryRun_MissingFile(t *testing.T) {
	router := newTestRouter(t, stubEmployeeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/import/dry-run", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
