package scanning

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

	"github.com/zombor/invoice-extract/internal/extraction"
	"github.com/zombor/invoice-extract/internal/invoice"
)

// Reducto implements the invoice.Extractor interface against a
// Reducto-style document parsing API: the file is uploaded, an async
// parse job is started, and the job is polled until the parsed
// text+tables come back. The parse result is then run through the
// pattern engine so every backend produces the same record shape.
type Reducto struct {
	baseURL      string
	apiKey       string
	engine       *extraction.Engine
	client       *http.Client
	pollInterval time.Duration
}

// NewReducto creates a new parse-API extraction backend
func NewReducto(baseURL string, apiKey string, engine *extraction.Engine) (*Reducto, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("reducto api key is required")
	}
	if baseURL == "" {
		baseURL = "https://platform.reducto.ai"
	}
	if engine == nil {
		engine = extraction.NewEngine(false)
	}

	return &Reducto{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		engine:       engine,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		pollInterval: 2 * time.Second,
	}, nil
}

type reductoUploadResponse struct {
	FileID string `json:"file_id"`
}

type reductoParseRequest struct {
	DocumentURL string `json:"document_url"`
}

type reductoParseResponse struct {
	JobID string `json:"job_id"`
}

type reductoBlock struct {
	Type    string     `json:"type"`
	Content string     `json:"content"`
	Rows    [][]string `json:"rows"`
}

type reductoChunk struct {
	Content string         `json:"content"`
	Blocks  []reductoBlock `json:"blocks"`
}

type reductoJobResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
	Result struct {
		Chunks []reductoChunk `json:"chunks"`
	} `json:"result"`
}

// Extract uploads the document, waits for the parse job, and maps the
// parsed content through the pattern engine.
func (r *Reducto) Extract(ctx context.Context, filename string, data []byte) (*invoice.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	fileID, err := r.upload(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}

	jobID, err := r.startParse(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("starting parse job: %w", err)
	}

	job, err := r.waitForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("waiting for parse job: %w", err)
	}

	doc := rawDocumentFromJob(job)
	return r.engine.Extract(doc, filename), nil
}

// upload sends the file as multipart form data and returns its ID.
func (r *Reducto) upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	var resp reductoUploadResponse
	if err := r.do(req, &resp); err != nil {
		return "", err
	}
	if resp.FileID == "" {
		return "", fmt.Errorf("upload returned no file id")
	}
	return resp.FileID, nil
}

// startParse kicks off an async parse of an uploaded file.
func (r *Reducto) startParse(ctx context.Context, fileID string) (string, error) {
	reqBody, err := json.Marshal(reductoParseRequest{DocumentURL: fileID})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/parse_async", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	var resp reductoParseResponse
	if err := r.do(req, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("parse returned no job id")
	}
	return resp.JobID, nil
}

// waitForJob polls the job endpoint until the parse completes or the
// context expires.
func (r *Reducto) waitForJob(ctx context.Context, jobID string) (*reductoJobResponse, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/job/"+jobID, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+r.apiKey)

		var job reductoJobResponse
		if err := r.do(req, &job); err != nil {
			return nil, err
		}

		switch strings.ToLower(job.Status) {
		case "completed":
			return &job, nil
		case "failed":
			return nil, fmt.Errorf("parse job failed: %s", job.Reason)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// do executes a request and decodes a JSON response into out.
func (r *Reducto) do(req *http.Request, out any) error {
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling reducto API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reducto API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// rawDocumentFromJob assembles the parsed chunks into the text+tables
// payload the pattern engine consumes.
func rawDocumentFromJob(job *reductoJobResponse) invoice.RawDocument {
	var text strings.Builder
	var tables []invoice.Table

	for _, chunk := range job.Result.Chunks {
		if chunk.Content != "" {
			text.WriteString(chunk.Content)
			text.WriteString("\n")
		}
		for _, block := range chunk.Blocks {
			if !strings.EqualFold(block.Type, "table") || len(block.Rows) == 0 {
				continue
			}
			rows := make([]invoice.Row, len(block.Rows))
			for i, r := range block.Rows {
				rows[i] = invoice.Row(r)
			}
			tables = append(tables, invoice.Table{Rows: rows})
		}
	}

	return invoice.RawDocument{
		Text:   text.String(),
		Tables: tables,
	}
}

// Close closes the parse-API client (no-op for HTTP client)
func (r *Reducto) Close() error {
	return nil
}
