// Package tabular lê arquivos de exportação em forma de tabela crua, sem
// interpretar cabeçalhos. Arquivos delimitados com linhas malformadas são
// lidos em modo tolerante; um arquivo ilegível resulta em erro para que o
// pipeline o registre como diagnóstico, nunca em aborto.
package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Table é o conteúdo cru de um arquivo tabular. A interpretação do cabeçalho
// fica a cargo do normalizador de esquema.
type Table struct {
	Path        string
	ModTime     time.Time
	Rows        [][]string
	SkippedRows int
}

// ReadFile lê um arquivo delimitado ou planilha conforme a extensão
func ReadFile(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao acessar %s", path)
	}

	var rows [][]string
	var skipped int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, skipped, err = readDelimited(path)
	case ".xlsx":
		rows, err = readSpreadsheet(path)
	default:
		err = errors.Errorf("extensão não suportada: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return &Table{
		Path:        path,
		ModTime:     info.ModTime(),
		Rows:        rows,
		SkippedRows: skipped,
	}, nil
}

// readDelimited tenta a leitura integral do CSV e, em caso de linhas
// malformadas (aspas desbalanceadas etc.), repete linha a linha descartando
// apenas as linhas problemáticas
func readDelimited(path string) ([][]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "erro ao abrir %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err == nil {
		return rows, 0, nil
	}

	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return nil, 0, errors.Wrapf(seekErr, "erro ao reposicionar %s", path)
	}

	return readLineByLine(f)
}

func readLineByLine(f *os.File) ([][]string, int, error) {
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao ler o conteúdo do arquivo")
	}

	var rows [][]string
	skipped := 0

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		lineReader := csv.NewReader(strings.NewReader(line))
		lineReader.FieldsPerRecord = -1
		lineReader.LazyQuotes = true

		record, err := lineReader.Read()
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, record)
	}

	return rows, skipped, nil
}

func readSpreadsheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao abrir a planilha %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("planilha %s sem abas", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler a aba %s de %s", sheets[0], path)
	}

	return rows, nil
}
