// Package discovery localiza os arquivos de exportação de cada categoria na
// árvore de dados. O núcleo do pipeline consome apenas a interface; a validação
// do conteúdo de cada arquivo acontece nas etapas seguintes.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Category identifica uma das três áreas lógicas da árvore de dados
type Category string

const (
	CategoryCustomers Category = "customers"
	CategoryMerchants Category = "merchants"
	CategorySales     Category = "sales"
)

// Categories lista as categorias em ordem estável de processamento
var Categories = []Category{CategoryCustomers, CategoryMerchants, CategorySales}

// itemReportMarker identifica os relatórios de itens vendidos pelo nome do arquivo
const itemReportMarker = "revenue item sales"

// File é um arquivo candidato descoberto para uma categoria
type File struct {
	Path    string
	ModTime time.Time
}

// FileDiscoverer devolve a lista de arquivos candidatos de uma categoria,
// em ordem determinística (lexicográfica por caminho)
type FileDiscoverer interface {
	Discover(category Category) ([]File, error)
}

type folderDiscoverer struct {
	root string
}

// NewFolderDiscoverer cria um descobridor baseado em um diretório raiz com um
// subdiretório por categoria
func NewFolderDiscoverer(root string) FileDiscoverer {
	return &folderDiscoverer{root: root}
}

func (d *folderDiscoverer) Discover(category Category) ([]File, error) {
	dir := filepath.Join(d.root, string(category))

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		// Categoria ausente não é erro aqui: o pipeline registra o DiscoveryGap
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao acessar o diretório %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s não é um diretório", dir)
	}

	var files []File
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !matches(category, info.Name()) {
			return nil
		}

		files = append(files, File{Path: path, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao percorrer o diretório %s", dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func matches(category Category, name string) bool {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)

	if category == CategorySales {
		return ext == ".csv" && strings.Contains(lower, itemReportMarker)
	}

	return ext == ".csv" || ext == ".xlsx"
}
