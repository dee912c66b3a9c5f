package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"filescope/internal/records"
	"filescope/internal/storage"
)

// fileTypeIconName 是前端文件列表统一使用的图标分类。
const fileTypeIconName = "doctype:attachment"

// FileSummary 是对外返回的文件摘要，字段名与平台 UI 契约保持一致。
type FileSummary struct {
	ID                        string    `json:"Id"`
	ContentDocumentID         string    `json:"ContentDocumentId"`
	Title                     string    `json:"Title"`
	OwnerID                   string    `json:"OwnerId"`
	OwnerName                 string    `json:"OwnerName"`
	ContentSize               int64     `json:"ContentSize"`
	HumanReadableContentSize  string    `json:"HumanReadableContentSize"`
	PathOnClient              string    `json:"PathOnClient"`
	FileExtension             string    `json:"FileExtension"`
	FileType                  string    `json:"FileType"`
	FileTypeIconName          string    `json:"FileTypeIconName"`
	CreatedDate               time.Time `json:"CreatedDate"`
	CreatedDateTimestamp      int64     `json:"CreatedDateTimestamp"`
	LastModifiedDate          time.Time `json:"LastModifiedDate"`
	LastModifiedDateTimestamp int64     `json:"LastModifiedDateTimestamp"`
}

// FileContent 携带文件内容流及下载所需的元数据。
type FileContent struct {
	Title         string
	PathOnClient  string
	FileExtension string
	FileType      string
	ContentSize   int64
	Body          io.ReadCloser
}

// RelatedFilesService 解析指向某个父记录的相关文件。
type RelatedFilesService struct {
	store records.Store
	files storage.Reader
}

func NewRelatedFilesService(store records.Store, files storage.Reader) *RelatedFilesService {
	return &RelatedFilesService{store: store, files: files}
}

// GetRelatedFiles 分两步解析：先按动态过滤取锚点记录 id 集合，
// 再查询这些记录关联的最新文件版本，按文件 id 去重后按最后修改时间降序返回。
func (s *RelatedFilesService) GetRelatedFiles(ctx context.Context, objectName, fieldName, fieldValue string) ([]FileSummary, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("related files service not initialized")
	}
	if objectName == "" {
		return nil, fmt.Errorf("object name is required")
	}
	if fieldName == "" {
		return nil, fmt.Errorf("field name is required")
	}

	ids, err := s.store.AnchorIDs(ctx, objectName, fieldName, fieldValue)
	if err != nil {
		return nil, fmt.Errorf("resolve anchor records: %w", err)
	}

	anchors := dedupStrings(ids)
	if len(anchors) == 0 {
		return []FileSummary{}, nil
	}

	rows, err := s.store.LinkedFiles(ctx, anchors)
	if err != nil {
		return nil, fmt.Errorf("resolve linked files: %w", err)
	}

	unique := dedupLinkedFiles(rows)
	sort.SliceStable(unique, func(i, j int) bool {
		return compareByLastModified(unique[i], unique[j]) < 0
	})

	result := make([]FileSummary, 0, len(unique))
	for _, row := range unique {
		result = append(result, newFileSummary(row))
	}
	return result, nil
}

// OpenFileContent 打开某个文件版本的内容流，供下载端点使用。
func (s *RelatedFilesService) OpenFileContent(ctx context.Context, versionID string) (*FileContent, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("related files service not initialized")
	}
	if versionID == "" {
		return nil, fmt.Errorf("version id is required")
	}

	row, err := s.store.LinkedFileByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if s.files == nil {
		return nil, errors.New("content storage not configured")
	}
	if row.StoragePath == "" {
		return nil, records.ErrNotFound
	}

	body, err := s.files.Read(ctx, row.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open file content: %w", err)
	}

	return &FileContent{
		Title:         row.Title,
		PathOnClient:  row.PathOnClient,
		FileExtension: row.FileExtension,
		FileType:      row.FileType,
		ContentSize:   row.ContentSize,
		Body:          body,
	}, nil
}

func dedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// dedupLinkedFiles 按文件版本 id 去重，保留首次出现的行序，
// 让时间戳相同的条目在排序后保持稳定。
func dedupLinkedFiles(rows []records.LinkedFile) []records.LinkedFile {
	seen := make(map[string]struct{}, len(rows))
	out := make([]records.LinkedFile, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, row)
	}
	return out
}

// compareByLastModified 按最后修改时间降序比较，只返回符号。
// 直接比较两个 64 位毫秒值，不做差值运算，避免窄化溢出。
// 缺失的时间戳按 epoch 0 处理；相同 id 视为同一条目。
func compareByLastModified(a, b records.LinkedFile) int {
	if a.ID == b.ID {
		return 0
	}
	am := epochMillis(a.LastModifiedAt)
	bm := epochMillis(b.LastModifiedAt)
	switch {
	case am > bm:
		return -1
	case am < bm:
		return 1
	default:
		return 0
	}
}

func epochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func newFileSummary(row records.LinkedFile) FileSummary {
	return FileSummary{
		ID:                        row.ID,
		ContentDocumentID:         row.ContentDocumentID,
		Title:                     row.Title,
		OwnerID:                   row.OwnerID,
		OwnerName:                 row.OwnerName,
		ContentSize:               row.ContentSize,
		HumanReadableContentSize:  humanReadableByteSize(float64(row.ContentSize)),
		PathOnClient:              row.PathOnClient,
		FileExtension:             row.FileExtension,
		FileType:                  row.FileType,
		FileTypeIconName:          fileTypeIconName,
		CreatedDate:               row.CreatedAt,
		CreatedDateTimestamp:      epochMillis(row.CreatedAt),
		LastModifiedDate:          row.LastModifiedAt,
		LastModifiedDateTimestamp: epochMillis(row.LastModifiedAt),
	}
}
