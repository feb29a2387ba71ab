package interaction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"rna-graph/internal/rnagraph/models"
)

// ============================================================
// Remote Annotator
// ============================================================

// NewAnnotator удаленный аннотатор по URL, без URL встроенный backbone
func NewAnnotator(baseURL string, timeout time.Duration) Annotator {
	if baseURL == "" {
		return NewBackboneAnnotator()
	}
	return NewRemoteAnnotator(baseURL, timeout)
}

// RemoteAnnotator отправляет исходный файл во внешний сервис аннотации
type RemoteAnnotator struct {
	baseURL string
	client  *http.Client
}

func NewRemoteAnnotator(baseURL string, timeout time.Duration) *RemoteAnnotator {
	return &RemoteAnnotator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *RemoteAnnotator) Annotate(ctx context.Context, s *models.Structure) (*Annotation, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", uploadName(s))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(s.Source); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/annotate", bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotator request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("annotator response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("annotator status %d", resp.StatusCode)
	}

	var annotation Annotation
	if err := json.Unmarshal(data, &annotation); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	return &annotation, nil
}

func uploadName(s *models.Structure) string {
	name := s.Name
	if name == "" {
		name = "structure"
	}
	if s.Format == models.FormatMMCIF {
		return name + ".cif"
	}
	return name + ".pdb"
}
