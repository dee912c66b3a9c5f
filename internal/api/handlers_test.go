package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"filescope/internal/records"
	"filescope/internal/schema"
	"filescope/internal/service"

	"github.com/go-chi/chi/v5"
)

type handlerRecordStore struct {
	anchorIDs   []string
	anchorErr   error
	linkedFiles []records.LinkedFile
	byID        *records.LinkedFile
	byIDErr     error
}

func (m *handlerRecordStore) AnchorIDs(ctx context.Context, objectName, fieldName, fieldValue string) ([]string, error) {
	if m.anchorErr != nil {
		return nil, m.anchorErr
	}
	return m.anchorIDs, nil
}

func (m *handlerRecordStore) LinkedFiles(ctx context.Context, anchorIDs []string) ([]records.LinkedFile, error) {
	return m.linkedFiles, nil
}

func (m *handlerRecordStore) LinkedFileByID(ctx context.Context, versionID string) (*records.LinkedFile, error) {
	if m.byIDErr != nil {
		return nil, m.byIDErr
	}
	return m.byID, nil
}

type handlerReader struct{}

func (handlerReader) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("pdf bytes")), nil
}

type handlerCatalog struct {
	object *schema.Object
	err    error
}

func (m *handlerCatalog) Object(ctx context.Context, name string) (*schema.Object, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.object, nil
}

func (m *handlerCatalog) ObjectTable(ctx context.Context, objectName string) (string, error) {
	return "", schema.ErrUnknownObject
}

func (m *handlerCatalog) FieldColumn(ctx context.Context, objectName, fieldName string) (string, error) {
	return "", schema.ErrUnknownField
}

func (m *handlerCatalog) FileLinkTargets(ctx context.Context) ([]schema.ObjectRef, error) {
	return []schema.ObjectRef{{Name: "Case", Label: "Case", LabelPlural: "Cases"}}, nil
}

func TestRelatedFilesHandler_GetRelatedFiles(t *testing.T) {
	store := &handlerRecordStore{
		anchorIDs: []string{"a1"},
		linkedFiles: []records.LinkedFile{
			{ID: "v1", Title: "report", ContentSize: 1024, LastModifiedAt: time.UnixMilli(5000).UTC()},
			{ID: "v2", Title: "notes", ContentSize: 500, LastModifiedAt: time.UnixMilli(9000).UTC()},
		},
	}
	handler := NewRelatedFilesHandler(service.NewRelatedFilesService(store, nil))

	req := httptest.NewRequest(http.MethodGet, "/related-files?object=Account&field=Name&value=Acme", nil)
	rec := httptest.NewRecorder()

	handler.GetRelatedFiles(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []service.FileSummary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 files, got %d", len(resp.Data))
	}
	if resp.Data[0].ID != "v2" {
		t.Fatalf("expected most recent file first, got %s", resp.Data[0].ID)
	}
	if resp.Data[0].HumanReadableContentSize != "500B" {
		t.Fatalf("unexpected size string: %s", resp.Data[0].HumanReadableContentSize)
	}
}

func TestRelatedFilesHandler_MissingParams(t *testing.T) {
	handler := NewRelatedFilesHandler(service.NewRelatedFilesService(&handlerRecordStore{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/related-files?field=Name", nil)
	rec := httptest.NewRecorder()
	handler.GetRelatedFiles(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing object, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/related-files?object=Account", nil)
	rec = httptest.NewRecorder()
	handler.GetRelatedFiles(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing field, got %d", rec.Code)
	}
}

func TestRelatedFilesHandler_UnknownObjectIs404(t *testing.T) {
	store := &handlerRecordStore{anchorErr: schema.ErrUnknownObject}
	handler := NewRelatedFilesHandler(service.NewRelatedFilesService(store, nil))

	req := httptest.NewRequest(http.MethodGet, "/related-files?object=Nope&field=Name&value=x", nil)
	rec := httptest.NewRecorder()
	handler.GetRelatedFiles(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRelatedFilesHandler_DownloadContent(t *testing.T) {
	store := &handlerRecordStore{byID: &records.LinkedFile{
		ID:            "v1",
		Title:         "quote",
		PathOnClient:  "quote.pdf",
		FileExtension: "pdf",
		ContentSize:   9,
		StoragePath:   "content/v1",
	}}
	handler := NewRelatedFilesHandler(service.NewRelatedFilesService(store, handlerReader{}))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/related-files/v1/content", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "pdf bytes" {
		t.Fatalf("unexpected body: %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "pdf") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "quote.pdf") {
		t.Fatalf("unexpected disposition: %s", cd)
	}
}

func TestRelatedFilesHandler_DownloadContentNotFound(t *testing.T) {
	store := &handlerRecordStore{byIDErr: records.ErrNotFound}
	handler := NewRelatedFilesHandler(service.NewRelatedFilesService(store, handlerReader{}))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/related-files/missing/content", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDescribeHandler_GetObjectDescribe(t *testing.T) {
	catalog := &handlerCatalog{object: &schema.Object{
		Name:        "Account",
		LocalName:   "Account",
		Label:       "Account",
		LabelPlural: "Accounts",
		KeyPrefix:   "001",
		Fields: []schema.Field{
			{Name: "Name", LocalName: "Name", Label: "Account Name"},
		},
		ChildRelationships: []schema.Relationship{
			{RelationshipName: "Cases", FieldName: "AccountId", FieldLabel: "Account", ChildObject: "Case"},
		},
	}}
	handler := NewDescribeHandler(service.NewDescribeService(catalog))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/describe/Account", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data service.ObjectDescribe `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.KeyPrefix != "001" {
		t.Fatalf("unexpected key prefix: %s", resp.Data.KeyPrefix)
	}
	if _, ok := resp.Data.Fields["Name"]; !ok {
		t.Fatal("Name field missing from describe")
	}
	if _, ok := resp.Data.ChildRelationships["Cases"]; !ok {
		t.Fatal("Cases relationship missing from describe")
	}
}

func TestDescribeHandler_UnknownObject(t *testing.T) {
	handler := NewDescribeHandler(service.NewDescribeService(&handlerCatalog{err: schema.ErrUnknownObject}))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/describe/Nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
