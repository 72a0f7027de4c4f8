package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Tipos de relatório aceitos.
const (
	KindPDF  = "pdf"
	KindWord = "word"
)

var ErrUnknownKind = errors.New("tipo de relatório inválido")

// Dispatcher envia o snapshot atual ao serviço externo de geração de
// documentos e grava o binário retornado com nome carimbado
// (relatorio_apostas_AAAAMMDD_HHMM).
type Dispatcher struct {
	BaseURL string
	Dir     string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewDispatcher(baseURL, dir string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		BaseURL: baseURL,
		Dir:     dir,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Log:     log,
	}
}

func endpointFor(kind string) (path, ext string, err error) {
	switch kind {
	case KindPDF:
		return "/generate-pdf-report", ".pdf", nil
	case KindWord:
		return "/generate-word-report", ".docx", nil
	}
	return "", "", ErrUnknownKind
}

// Generate faz o POST do snapshot e devolve o caminho do arquivo gerado.
func (d *Dispatcher) Generate(ctx context.Context, kind string, snap Snapshot) (string, error) {
	path, ext, err := endpointFor(kind)
	if err != nil {
		return "", err
	}

	body, _ := json.Marshal(snap)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("report endpoint: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("report endpoint: http %d", res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}
	name := "relatorio_apostas_" + time.Now().Format("20060102_1504") + ext
	out := filepath.Join(d.Dir, name)
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		return "", err
	}

	d.Log.Info("report generated", zap.String("kind", kind), zap.String("file", out))
	return out, nil
}
