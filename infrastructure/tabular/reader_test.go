package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile_CSV(t *testing.T) {
	path := writeCSV(t, "id,email\n1,a@x.com\n2,b@x.com\n")

	table, err := ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, path, table.Path)
	assert.False(t, table.ModTime.IsZero())
	assert.Zero(t, table.SkippedRows)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"id", "email"}, table.Rows[0])
	assert.Equal(t, []string{"2", "b@x.com"}, table.Rows[2])
}

func TestReadFile_CSVComLinhasIrregulares(t *testing.T) {
	// Linhas com contagem de campos divergente são preservadas, não rejeitadas
	path := writeCSV(t, "id,email,phone\n1,a@x.com\n2,b@x.com,555,extra\n")

	table, err := ReadFile(path)

	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Len(t, table.Rows[1], 2)
	assert.Len(t, table.Rows[2], 4)
}

func TestReadFile_CSVComCampoEntreAspas(t *testing.T) {
	path := writeCSV(t, "name,note\n\"Acme, Inc\",\"linha\ncom quebra\"\n")

	table, err := ReadFile(path)

	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Acme, Inc", table.Rows[1][0])
	assert.Equal(t, "linha\ncom quebra", table.Rows[1][1])
}

func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]interface{}{"id", "email"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]interface{}{"1", "a@x.com"}))
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	table, err := ReadFile(path)

	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"id", "email"}, table.Rows[0])
	assert.Equal(t, []string{"1", "a@x.com"}, table.Rows[1])
}

func TestReadFile_ExtensaoNaoSuportada(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legado.xls")
	require.NoError(t, os.WriteFile(path, []byte("binário"), 0o644))

	table, err := ReadFile(path)

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "extensão não suportada")
}

func TestReadFile_ArquivoInexistente(t *testing.T) {
	table, err := ReadFile(filepath.Join(t.TempDir(), "nada.csv"))

	require.Error(t, err)
	assert.Nil(t, table)
}

func TestReadLineByLine_DescartaLinhasQuebradas(t *testing.T) {
	path := writeCSV(t, "id,email\n1,a@x.com\n\n2,b@x.com\n")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, skipped, err := readLineByLine(f)

	require.NoError(t, err)
	assert.Zero(t, skipped)
	// Linhas vazias são ignoradas sem contar como descarte
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "b@x.com"}, rows[2])
}
