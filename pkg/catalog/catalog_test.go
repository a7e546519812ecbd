package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "textos_para_fala.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"ID", "Texto"},
		{1, "O rato roeu a roupa do rei de Roma"},
		{2, "  Bom dia, tudo bem?  "},
		{3, ""},
		{4, "Três pratos de trigo"},
	})

	loader := NewLoader("")
	prompts, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"O rato roeu a roupa do rei de Roma",
		"Bom dia, tudo bem?",
		"Três pratos de trigo",
	}, prompts)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Frase,Nivel\nola mundo,1\nteste dois\n"), 0644))

	prompts, err := NewLoader("Frase").Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ola mundo", "teste dois"}, prompts)
}

func TestLoadMemoizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Texto\nprimeiro\n"), 0644))

	loader := NewLoader(DefaultColumn)
	first, err := loader.Load(path)
	require.NoError(t, err)

	// Changing the file does not affect the cached result
	require.NoError(t, os.WriteFile(path, []byte("Texto\nsegundo\n"), 0644))

	second, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loader.Reads())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		loader := NewLoader("")
		path := filepath.Join(t.TempDir(), "missing.xlsx")

		prompts, err := loader.Load(path)
		assert.Error(t, err)
		assert.NotNil(t, prompts)
		assert.Empty(t, prompts)

		// Errors are not cached
		_, _ = loader.Load(path)
		assert.Equal(t, 2, loader.Reads())
	})

	t.Run("missing column", func(t *testing.T) {
		path := writeWorkbook(t, [][]any{{"Frase"}, {"ola"}})

		prompts, err := NewLoader("").Load(path)
		assert.ErrorIs(t, err, ErrColumnNotFound)
		assert.Empty(t, prompts)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

		_, err := NewLoader("").Load(path)
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "textos.csv")
		require.NoError(t, os.WriteFile(path, []byte("Texto\n"), 0644))

		prompts, err := NewLoader("").Load(path)
		require.NoError(t, err)
		assert.Empty(t, prompts)
	})
}
