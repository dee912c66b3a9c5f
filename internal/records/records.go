package records

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 表示目标记录不存在。
var ErrNotFound = errors.New("records: record not found")

// LinkedFile 是文件链接查询的一行结果：某个锚点记录关联到的
// 最新已发布文件版本。同一个文件被多个锚点引用时会出现重复行。
type LinkedFile struct {
	ID                string
	ContentDocumentID string
	Title             string
	OwnerID           string
	OwnerName         string
	ContentSize       int64
	PathOnClient      string
	FileExtension     string
	FileType          string
	StoragePath       string
	CreatedAt         time.Time
	LastModifiedAt    time.Time
}

// Store 定义记录存储的只读查询原语。
// AnchorIDs 对命名集合执行动态过滤；LinkedFiles 解析这些记录关联的文件。
type Store interface {
	AnchorIDs(ctx context.Context, objectName, fieldName, fieldValue string) ([]string, error)
	LinkedFiles(ctx context.Context, anchorIDs []string) ([]LinkedFile, error)
	LinkedFileByID(ctx context.Context, versionID string) (*LinkedFile, error)
}
