// Package snapshotstore persiste o único artefato durável do pipeline: o
// snapshot de métricas da execução anterior, usado como baseline do relatório
// de diferenças da próxima execução.
package snapshotstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vfg2006/platform-analytics-api/internal/domain"
)

// Store lê e sobrescreve o baseline persistido
type Store interface {
	// Load retorna (nil, nil) quando não há baseline: é a primeira execução
	Load() (*domain.MetricsSnapshot, error)
	// Save sobrescreve o baseline. Só deve ser chamado após o snapshot
	// completo ter sido computado com sucesso.
	Save(snapshot *domain.MetricsSnapshot) error
}

type fileStore struct {
	path string
}

// NewFileStore cria um Store baseado em um único arquivo JSON
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Load() (*domain.MetricsSnapshot, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler o baseline em %s", s.path)
	}

	var snapshot domain.MetricsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.Wrapf(err, "baseline corrompido em %s", s.path)
	}

	return &snapshot, nil
}

func (s *fileStore) Save(snapshot *domain.MetricsSnapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar o snapshot")
	}

	// Escrita em arquivo temporário seguida de rename: uma falha no meio da
	// escrita não corrompe o baseline da comparação seguinte
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "erro ao criar arquivo temporário em %s", dir)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "erro ao escrever o snapshot temporário")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "erro ao fechar o snapshot temporário")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "erro ao substituir o baseline em %s", s.path)
	}

	return nil
}
