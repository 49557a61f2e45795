package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/liufit-go/internal/adapters/chart"
	"github.com/0xcro3dile/liufit-go/internal/adapters/exporter"
	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/adapters/loader"
	"github.com/0xcro3dile/liufit-go/internal/adapters/resultstore"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
)

const (
	refEnergyText   = "10, 15, 22, 33, 50, 75, 110"
	refDiameterText = "4.1, 5.3, 6.0, 7.0, 8.1, 9.2, 10.1"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	analyze := usecases.NewAnalyzeUseCase(
		loader.NewListParser(),
		loader.NewTableDecoder(loader.DefaultTableOptions()),
		resultstore.NewInMemoryStore(4),
		resultstore.NewFingerprinter(),
	)
	srv, err := NewServer(analyze, i18n.NewCatalog(i18n.LangZH), chart.NewRenderer(320, 240),
		exporter.NewXLSXExporter(), 1<<20, ":0")
	require.NoError(t, err)
	return srv.Handler()
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/fit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(h, req)
}

func postAPI(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/fit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(h, req)
}

func TestServer_Index(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Liu 方法 拟合工具")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `value="`+defaultEnergy+`"`)
	assert.Contains(t, rec.Body.String(), `value="`+defaultDiameter+`"`)
	assert.NotContains(t, rec.Body.String(), "<table")

	rec = do(h, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	assert.Contains(t, rec.Body.String(), "Liu Method Fitting Tool")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec = do(h, req)
	assert.Contains(t, rec.Body.String(), "Liu Method Fitting Tool")
}

func TestServer_UnknownPath(t *testing.T) {
	rec := do(newTestHandler(t), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_FitForm(t *testing.T) {
	h := newTestHandler(t)

	rec := postForm(h, url.Values{"energy": {refEnergyText}, "diameter": {refDiameterText}, "lang": {"en"}})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Fit succeeded")
	assert.Contains(t, body, "7.13")
	assert.Contains(t, body, "8.42")
	assert.Contains(t, body, "0.06402")
	assert.Contains(t, body, "0.9812")
	assert.Contains(t, body, `<img src="/chart/`)
	assert.Contains(t, body, `/export/`)
	// Inputs are echoed back into the form.
	assert.Contains(t, body, refEnergyText)
}

func TestServer_FitFormErrorRendersMessageOnly(t *testing.T) {
	h := newTestHandler(t)

	rec := postForm(h, url.Values{"energy": {"10, 20, 30"}, "diameter": {"1, 2"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "能量和直径数量不一致！")
	assert.NotContains(t, body, "<table")
	assert.NotContains(t, body, "/chart/")

	rec = postForm(h, url.Values{"energy": {"10, 20, 40"}, "diameter": {"5, 5, 5"}, "lang": {"en"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "degenerate fit")
}

func TestServer_FitUpload(t *testing.T) {
	h := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("lang", "en"))
	require.NoError(t, mw.WriteField("energy", "not used"))
	fw, err := mw.CreateFormFile("file", "run.csv")
	require.NoError(t, err)
	fw.Write([]byte("energy,diameter\n10,4.1\n15,5.3\n22,6.0\n33,7.0\n50,8.1\n75,9.2\n110,10.1\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/fit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "7.13")
}

func TestServer_APIFit(t *testing.T) {
	h := newTestHandler(t)

	rec := postAPI(h, `{"energy":[10,15,22,33,50,75,110],"diameter":[4.1,5.3,6.0,7.0,8.1,9.2,10.1]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp fitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InEpsilon(t, 35.4710094149735, resp.Slope, 1e-9)
	assert.InEpsilon(t, 7.134207328640045, resp.ThresholdEnergy, 1e-9)
	assert.Len(t, resp.FitLine, usecases.FitLinePoints)
	assert.Len(t, resp.Samples, 7)
	assert.Len(t, resp.ID, 16)
	assert.Equal(t, "/chart/"+resp.ID+".png", resp.ChartURL)
	assert.Equal(t, "/export/"+resp.ID+".xlsx", resp.ExportURL)
}

func TestServer_APIFitErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"length mismatch", `{"energy":[1,2,3],"diameter":[1,2]}`, http.StatusBadRequest, "validation"},
		{"bad energy", `{"energy":[0,2],"diameter":[1,2]}`, http.StatusBadRequest, "validation"},
		{"malformed json", `{"energy":`, http.StatusBadRequest, "validation"},
		{"flat diameters", `{"energy":[10,20,40],"diameter":[5,5,5]}`, http.StatusUnprocessableEntity, "numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAPI(h, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_ChartAndExport(t *testing.T) {
	h := newTestHandler(t)

	rec := postAPI(h, `{"energy":[10,15,22,33,50,75,110],"diameter":[4.1,5.3,6.0,7.0,8.1,9.2,10.1]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp fitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = do(h, httptest.NewRequest(http.MethodGet, resp.ChartURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(h, httptest.NewRequest(http.MethodGet, resp.ExportURL+"?lang=en", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), resp.ID+".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestServer_ChartAndExportNotFound(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/chart/0123456789abcdef.png", "/chart/0123456789abcdef", "/export/.xlsx", "/export/0123456789abcdef.csv"} {
		rec := do(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestServer_Health(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","cached_results":0}`, rec.Body.String())

	require.Equal(t, http.StatusOK, postAPI(h, `{"energy":[10,15,22],"diameter":[4.1,5.3,6.0]}`).Code)
	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.JSONEq(t, `{"status":"ok","cached_results":1}`, rec.Body.String())
}

func TestServer_RequestID(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")
	rec = do(h, req)
	assert.Equal(t, "client-chosen", rec.Header().Get(RequestIDHeader))
}

func TestServer_Gzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := do(newTestHandler(t), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestServer_CORSPreflight(t *testing.T) {
	rec := do(newTestHandler(t), httptest.NewRequest(http.MethodOptions, "/api/fit", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
