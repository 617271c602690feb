package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/api"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

type fakeKnowledgeAPI struct {
	queries   []api.KnowledgeQuery
	page      models.Page[models.Knowledge]
	added     []models.CreateKnowledgeRequest
	addResp   *models.AddKnowledgeResponse
	addErr    error
	updated   map[string]models.UpdateKnowledgeRequest
	deleted   []string
	deleteAll int
}

func (f *fakeKnowledgeAPI) ListKnowledge(ctx context.Context, q api.KnowledgeQuery) (models.Page[models.Knowledge], error) {
	f.queries = append(f.queries, q)
	return f.page, nil
}

func (f *fakeKnowledgeAPI) AddKnowledge(ctx context.Context, in models.CreateKnowledgeRequest) (*models.AddKnowledgeResponse, error) {
	f.added = append(f.added, in)
	return f.addResp, f.addErr
}

func (f *fakeKnowledgeAPI) UpdateKnowledge(ctx context.Context, id string, in models.UpdateKnowledgeRequest) error {
	if f.updated == nil {
		f.updated = map[string]models.UpdateKnowledgeRequest{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeKnowledgeAPI) DeleteKnowledge(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeKnowledgeAPI) DeleteAllKnowledge(ctx context.Context) error {
	f.deleteAll++
	return nil
}

type fakeChatAPI struct {
	requests []models.ChatRequest
	resp     *models.ChatResponse
	err      error
	// during runs inside Chat, before the reply is returned
	during func()
}

func (f *fakeChatAPI) Chat(ctx context.Context, in models.ChatRequest) (*models.ChatResponse, error) {
	f.requests = append(f.requests, in)
	if f.during != nil {
		f.during()
	}
	return f.resp, f.err
}

type memTranscript struct {
	mu      sync.Mutex
	msgs    []models.ChatMessage
	saves   int
	saveErr error
	cleared int
}

func (m *memTranscript) Save(ctx context.Context, msgs []models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.msgs = append([]models.ChatMessage(nil), msgs...)
	return nil
}

func (m *memTranscript) Load(ctx context.Context) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ChatMessage(nil), m.msgs...), nil
}

func (m *memTranscript) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.msgs = nil
	return nil
}

type upload struct {
	route    string
	filename string
	body     string
	mapping  models.ColumnMapping
}

type fakeFilesAPI struct {
	uploads    []upload
	files      []models.FileItem
	deleted    []string
	fetched    []string
	payload    string
	fetchErr   error
	uploadResp *models.FileUploadResponse
}

func (f *fakeFilesAPI) record(route, name string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, upload{route: route, filename: name, body: string(b), mapping: m})
	if f.uploadResp == nil {
		return &models.FileUploadResponse{Message: "ok", ItemsCreated: 1}, nil
	}
	return f.uploadResp, nil
}

func (f *fakeFilesAPI) UploadFile(ctx context.Context, filename string, r io.Reader) (*models.FileUploadResponse, error) {
	return f.record("upload-file", filename, r, models.ColumnMapping{})
}

func (f *fakeFilesAPI) UploadCSVCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	return f.record("upload-csv-custom", filename, r, m)
}

func (f *fakeFilesAPI) UploadExcelCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	return f.record("upload-excel-custom", filename, r, m)
}

func (f *fakeFilesAPI) ListFiles(ctx context.Context) ([]models.FileItem, error) {
	return f.files, nil
}

func (f *fakeFilesAPI) DeleteFile(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFilesAPI) fetch(route, id string, w io.Writer) (int64, error) {
	f.fetched = append(f.fetched, route+":"+id)
	n, err := io.WriteString(w, f.payload)
	if err != nil {
		return int64(n), err
	}
	return int64(n), f.fetchErr
}

func (f *fakeFilesAPI) DownloadFile(ctx context.Context, id string, w io.Writer) (int64, error) {
	return f.fetch("download", id, w)
}

func (f *fakeFilesAPI) FilePDF(ctx context.Context, id string, w io.Writer) (int64, error) {
	return f.fetch("pdf", id, w)
}

type fakePromptsAPI struct {
	prompts   []models.SystemPrompt
	created   []models.SystemPromptInput
	updated   map[string]models.SystemPromptInput
	deleted   []string
	activated []string
	resets    int
}

func (f *fakePromptsAPI) ListPrompts(ctx context.Context) ([]models.SystemPrompt, error) {
	return append([]models.SystemPrompt(nil), f.prompts...), nil
}

func (f *fakePromptsAPI) CreatePrompt(ctx context.Context, in models.SystemPromptInput) error {
	f.created = append(f.created, in)
	return nil
}

func (f *fakePromptsAPI) UpdatePrompt(ctx context.Context, id string, in models.SystemPromptInput) error {
	if f.updated == nil {
		f.updated = map[string]models.SystemPromptInput{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakePromptsAPI) DeletePrompt(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePromptsAPI) ActivatePrompt(ctx context.Context, id string) error {
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakePromptsAPI) ResetPrompts(ctx context.Context) error {
	f.resets++
	return nil
}
