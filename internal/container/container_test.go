package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golime/adapters/scaling"
	"golime/domain/core"
	"golime/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalerFile(t *testing.T) string {
	t.Helper()
	scaler, err := scaling.NewStandardScaler([]float64{80, 96}, []float64{10, 2}, []string{"HR", "SPO2"})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, scaling.SaveFile(path, scaler))
	return path
}

func testConfig(scalerPath string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", GinMode: "test"},
		Scaling:  config.ScalingConfig{ScalerFile: scalerPath, SequenceSteps: 2},
		LogLevel: "ERROR",
	}
}

func TestNew(t *testing.T) {
	c, err := New(testConfig(scalerFile(t)))
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Equal(t, scaling.KindStandard, c.Scaler.Kind())
	assert.NotNil(t, c.Normalizer)
	assert.Nil(t, c.ExplanationRepo)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(testConfig(""))
	assert.Error(t, err)

	_, err = New(testConfig(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)

	cfg := testConfig(scalerFile(t))
	cfg.Scaling.Columns = []string{"HR", "SPO2", "TEMP"}
	_, err = New(cfg)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestInitWithDatabase_Nil(t *testing.T) {
	c, err := New(testConfig(scalerFile(t)))
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(nil))
}

func TestServer_Health(t *testing.T) {
	c, err := New(testConfig(scalerFile(t)))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c.Server().Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"columns":["HR","SPO2"]`)
}
