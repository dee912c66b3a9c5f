// seed 准备一套演示目录与记录数据，便于本地联调两个查询端点。
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"filescope/internal/config"
	"filescope/internal/database"
	"filescope/internal/storage"
	"filescope/internal/storage/local"
	"filescope/internal/storage/s3"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	writer, err := newContentWriter(ctx, cfg)
	if err != nil {
		log.Fatalf("init content storage: %v", err)
	}

	if err := seedCatalog(ctx, db); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	if err := seedRecords(ctx, db); err != nil {
		log.Fatalf("seed records: %v", err)
	}
	if err := seedFiles(ctx, db, writer); err != nil {
		log.Fatalf("seed files: %v", err)
	}

	log.Println("demo data ready")
}

// seedCatalog 登记演示对象：Account 为父对象，Case/WorkOrder 可挂文件，
// Order 故意不进白名单，用来演示子关系过滤。
func seedCatalog(ctx context.Context, db *sql.DB) error {
	objects := []struct {
		name, localName, label, labelPlural, keyPrefix, tableName string
	}{
		{"Account", "Account", "Account", "Accounts", "001", "accounts"},
		{"Case", "Case", "Case", "Cases", "500", "cases"},
		{"WorkOrder", "WorkOrder", "Work Order", "Work Orders", "0WO", "work_orders"},
		{"Order", "Order", "Order", "Orders", "801", "orders"},
	}
	for _, obj := range objects {
		if err := exec(ctx, db, `INSERT INTO entity_types (name, local_name, label, label_plural, key_prefix, table_name)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (name) DO NOTHING`,
			obj.name, obj.localName, obj.label, obj.labelPlural, obj.keyPrefix, obj.tableName); err != nil {
			return err
		}
	}

	fields := []struct {
		entity, name, localName, columnName, label, helpText, fieldType string
	}{
		{"Account", "Name", "Name", "name", "Account Name", "", "string"},
		{"Case", "AccountId", "AccountId", "account_id", "Account", "Parent account", "reference"},
		{"Case", "Subject", "Subject", "subject", "Subject", "", "string"},
		{"Case", "acme__Status__c", "Status__c", "status", "Status", "Lifecycle state of the case", "picklist"},
		{"WorkOrder", "AccountId", "AccountId", "account_id", "Account", "", "reference"},
		{"Order", "AccountId", "AccountId", "account_id", "Account", "", "reference"},
	}
	for _, f := range fields {
		if err := exec(ctx, db, `INSERT INTO entity_fields (entity_name, name, local_name, column_name, label, help_text, field_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (entity_name, name) DO NOTHING`,
			f.entity, f.name, f.localName, f.columnName, f.label, f.helpText, f.fieldType); err != nil {
			return err
		}
	}

	picklist := []struct {
		value, label string
		active       bool
		position     int
	}{
		{"open", "Open", true, 0},
		{"in_progress", "In Progress", true, 1},
		{"closed", "Closed", true, 2},
		{"legacy", "Legacy", false, 3},
	}
	for _, pv := range picklist {
		if err := exec(ctx, db, `INSERT INTO picklist_entries (entity_name, field_name, value, label, is_active, position)
		VALUES ('Case', 'acme__Status__c', $1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			pv.value, pv.label, pv.active, pv.position); err != nil {
			return err
		}
	}

	relationships := []struct {
		parent, child, name, fkName, fkLabel string
	}{
		{"Account", "Case", "Cases", "AccountId", "Account"},
		{"Account", "WorkOrder", "WorkOrders", "AccountId", "Account"},
		{"Account", "Order", "Orders", "AccountId", "Account"},
	}
	for _, rel := range relationships {
		if err := exec(ctx, db, `INSERT INTO entity_relationships (parent_entity, child_entity, relationship_name, fk_field_name, fk_field_label)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			rel.parent, rel.child, rel.name, rel.fkName, rel.fkLabel); err != nil {
			return err
		}
	}

	for _, target := range []string{"Account", "Case", "WorkOrder"} {
		if err := exec(ctx, db, `INSERT INTO file_link_targets (entity_name) VALUES ($1) ON CONFLICT DO NOTHING`, target); err != nil {
			return err
		}
	}

	return nil
}

func seedRecords(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS accounts (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS cases (id TEXT PRIMARY KEY, account_id TEXT NOT NULL, subject TEXT NOT NULL DEFAULT '', status TEXT NOT NULL DEFAULT 'open')`,
		`CREATE TABLE IF NOT EXISTS work_orders (id TEXT PRIMARY KEY, account_id TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, account_id TEXT NOT NULL)`,
	}
	for _, stmt := range ddl {
		if err := exec(ctx, db, stmt); err != nil {
			return err
		}
	}

	accountID := uuid.NewString()
	if err := exec(ctx, db, `INSERT INTO accounts (id, name) VALUES ($1, 'Acme Corp') ON CONFLICT DO NOTHING`, accountID); err != nil {
		return err
	}

	for i := 0; i < 2; i++ {
		if err := exec(ctx, db, `INSERT INTO cases (id, account_id, subject) VALUES ($1, $2, $3)`,
			uuid.NewString(), accountID, fmt.Sprintf("Demo case %d", i+1)); err != nil {
			return err
		}
	}

	return nil
}

// seedFiles 给同一个账户下的两个 case 挂上同一份文件，
// 用来演示去重：两条链接只应产生一条摘要。
func seedFiles(ctx context.Context, db *sql.DB, writer storage.Writer) error {
	rows, err := db.QueryContext(ctx, `SELECT id FROM cases LIMIT 2`)
	if err != nil {
		return fmt.Errorf("load case ids: %w", err)
	}
	defer rows.Close()

	var caseIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		caseIDs = append(caseIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(caseIDs) == 0 {
		return fmt.Errorf("no case records to link files to")
	}

	docID := uuid.NewString()
	versionID := uuid.NewString()
	storagePath := "content/" + versionID
	body := strings.NewReader("demo attachment body")

	if _, err := writer.Write(ctx, storagePath, body); err != nil {
		return fmt.Errorf("write demo content: %w", err)
	}

	if err := exec(ctx, db, `INSERT INTO content_documents (id) VALUES ($1)`, docID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := exec(ctx, db, `INSERT INTO content_versions
	(id, content_document_id, title, owner_id, owner_name, content_size, path_on_client, file_extension, file_type, storage_path, created_at, last_modified_at)
	VALUES ($1, $2, 'Demo attachment', $3, 'Demo User', 20, 'demo.txt', 'txt', 'TEXT', $4, $5, $5)`,
		versionID, docID, uuid.NewString(), storagePath, now); err != nil {
		return err
	}

	for _, caseID := range caseIDs {
		if err := exec(ctx, db, `INSERT INTO content_document_links (id, content_document_id, linked_entity_id)
		VALUES ($1, $2, $3)`, uuid.NewString(), docID, caseID); err != nil {
			return err
		}
	}

	return nil
}

func exec(ctx context.Context, db *sql.DB, query string, args ...any) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec %q: %w", firstLine(query), err)
	}
	return nil
}

func firstLine(query string) string {
	if idx := strings.IndexByte(query, '\n'); idx > 0 {
		return query[:idx]
	}
	return query
}

func newContentWriter(ctx context.Context, cfg *config.Config) (storage.Writer, error) {
	switch cfg.StorageDriver {
	case "local":
		return local.NewStorage(cfg.StorageDir), nil
	case "s3":
		return s3.New(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}
