package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filescope/internal/records"

	"github.com/jackc/pgx/v5"
)

// SchemaGuard 提供动态查询允许使用的物理标识符。
// 表名与列名必须来自目录，调用方输入只在这里换成受信值，
// 过滤值本身始终走绑定参数。
type SchemaGuard interface {
	ObjectTable(ctx context.Context, objectName string) (string, error)
	FieldColumn(ctx context.Context, objectName, fieldName string) (string, error)
}

// NewStore 返回基于 *sql.DB 的记录存储实现。
func NewStore(db *sql.DB, guard SchemaGuard) *Store {
	return &Store{db: db, guard: guard}
}

// Store 实现 records.Store。
type Store struct {
	db    *sql.DB
	guard SchemaGuard
}

var linkedFileColumns = []string{
	"v.id",
	"v.content_document_id",
	"v.title",
	"v.owner_id",
	"v.owner_name",
	"v.content_size",
	"v.path_on_client",
	"v.file_extension",
	"v.file_type",
	"v.storage_path",
	"v.created_at",
	"v.last_modified_at",
}

// AnchorIDs 执行 SELECT id FROM <object> WHERE <field> = $1。
func (s *Store) AnchorIDs(ctx context.Context, objectName, fieldName, fieldValue string) ([]string, error) {
	if s == nil || s.db == nil || s.guard == nil {
		return nil, fmt.Errorf("record store not initialized")
	}

	table, err := s.guard.ObjectTable(ctx, objectName)
	if err != nil {
		return nil, err
	}
	column, err := s.guard.FieldColumn(ctx, objectName, fieldName)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, buildAnchorQuery(table, column), fieldValue)
	if err != nil {
		return nil, fmt.Errorf("query anchor records of %s: %w", objectName, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan anchor id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// LinkedFiles 解析锚点记录关联的最新文件版本，每条链接产生一行。
func (s *Store) LinkedFiles(ctx context.Context, anchorIDs []string) ([]records.LinkedFile, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("record store not initialized")
	}
	if len(anchorIDs) == 0 {
		return nil, nil
	}

	args := make([]any, len(anchorIDs))
	placeholders := make([]string, len(anchorIDs))
	for i, id := range anchorIDs {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`SELECT %s
	FROM content_document_links l
	JOIN content_versions v ON v.content_document_id = l.content_document_id AND v.is_latest
	WHERE l.linked_entity_id IN (%s)`,
		strings.Join(linkedFileColumns, ","),
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query linked files: %w", err)
	}
	defer rows.Close()

	var result []records.LinkedFile
	for rows.Next() {
		file, err := scanLinkedFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LinkedFileByID 通过版本主键查询单个文件版本。
func (s *Store) LinkedFileByID(ctx context.Context, versionID string) (*records.LinkedFile, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("record store not initialized")
	}

	query := fmt.Sprintf(`SELECT %s FROM content_versions v WHERE v.id = $1`,
		strings.Join(linkedFileColumns, ","))

	file, err := scanLinkedFile(s.db.QueryRowContext(ctx, query, versionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, records.ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

// buildAnchorQuery 只接受来自目录的标识符，并再做一次引用转义。
func buildAnchorQuery(table, column string) string {
	return fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`,
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLinkedFile(rs rowScanner) (*records.LinkedFile, error) {
	var file records.LinkedFile
	if err := rs.Scan(
		&file.ID,
		&file.ContentDocumentID,
		&file.Title,
		&file.OwnerID,
		&file.OwnerName,
		&file.ContentSize,
		&file.PathOnClient,
		&file.FileExtension,
		&file.FileType,
		&file.StoragePath,
		&file.CreatedAt,
		&file.LastModifiedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan linked file: %w", err)
	}
	return &file, nil
}
