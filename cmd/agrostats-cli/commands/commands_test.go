package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostats/internal/services"
	"agrostats/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func fakeSidra(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.SidraJSON))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestCropsCommand(t *testing.T) {
	out, err := execute(t, "crops")
	require.NoError(t, err)
	assert.Contains(t, out, "2713")
	assert.Contains(t, out, "Soja (em grão)")

	out, err = execute(t, "crops", "--search", "soya")
	require.NoError(t, err)
	assert.Contains(t, out, "2713")

	_, err = execute(t, "crops", "--search", "banana")
	assert.ErrorIs(t, err, services.ErrCropNotFound)
}

func TestFetchCommand(t *testing.T) {
	url := fakeSidra(t)

	out, err := execute(t, "fetch", "--sidra-url", url, "--years", "2023", "--products", "2711")
	require.NoError(t, err)
	assert.Contains(t, out, "Abadia de Goiás - GO")
	assert.Contains(t, out, "municipio_nome")
	assert.Contains(t, out, "1 records")

	out, err = execute(t, "fetch", "--sidra-url", url, "--years", "2023", "-o", "json")
	require.NoError(t, err)
	var resp struct {
		Dados []map[string]any `json:"dados"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, float64(5400), resp.Dados[0]["valor"])

	out, err = execute(t, "fetch", "--sidra-url", url, "--years", "2023", "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "municipio_codigo_ibge,municipio_nome")
}

func TestFetchCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "producao.xlsx")

	out, err := execute(t, "fetch", "--sidra-url", fakeSidra(t), "--years", "2023", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 records")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFetchCommandRejectsInvalidQuery(t *testing.T) {
	_, err := execute(t, "fetch", "--sidra-url", fakeSidra(t), "--years", "1990")

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Result.Errors)

	_, err = execute(t, "fetch", "--sidra-url", fakeSidra(t), "--years", "2023", "--region", "52")
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Result.Errors[0], "invalid region")
}
