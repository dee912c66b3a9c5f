package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filescope/internal/schema"
)

// NewCatalog 返回基于 *sql.DB 的目录实现。
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Catalog 实现 schema.Catalog，数据来自平台目录表。
type Catalog struct {
	db *sql.DB
}

var objectColumns = []string{
	"name",
	"local_name",
	"label",
	"label_plural",
	"key_prefix",
	"table_name",
	"is_accessible",
}

var fieldColumns = []string{
	"name",
	"local_name",
	"column_name",
	"label",
	"help_text",
	"field_type",
}

// Object 加载对象及其字段、选项列表和子关系。
func (c *Catalog) Object(ctx context.Context, name string) (*schema.Object, error) {
	query := fmt.Sprintf(`SELECT %s FROM entity_types WHERE name = $1`, strings.Join(objectColumns, ","))

	var obj schema.Object
	err := c.db.QueryRowContext(ctx, query, name).Scan(
		&obj.Name,
		&obj.LocalName,
		&obj.Label,
		&obj.LabelPlural,
		&obj.KeyPrefix,
		&obj.TableName,
		&obj.Accessible,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", schema.ErrUnknownObject, name)
		}
		return nil, fmt.Errorf("load object %s: %w", name, err)
	}

	fields, err := c.loadFields(ctx, obj.Name)
	if err != nil {
		return nil, err
	}
	obj.Fields = fields

	relationships, err := c.loadChildRelationships(ctx, obj.Name)
	if err != nil {
		return nil, err
	}
	obj.ChildRelationships = relationships

	return &obj, nil
}

// ObjectTable 返回对象对应的物理表名。
func (c *Catalog) ObjectTable(ctx context.Context, objectName string) (string, error) {
	var table string
	err := c.db.QueryRowContext(ctx,
		`SELECT table_name FROM entity_types WHERE name = $1`, objectName).Scan(&table)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: %s", schema.ErrUnknownObject, objectName)
		}
		return "", fmt.Errorf("resolve table for %s: %w", objectName, err)
	}
	return table, nil
}

// FieldColumn 返回字段对应的物理列名。
func (c *Catalog) FieldColumn(ctx context.Context, objectName, fieldName string) (string, error) {
	var column string
	err := c.db.QueryRowContext(ctx,
		`SELECT column_name FROM entity_fields WHERE entity_name = $1 AND name = $2`,
		objectName, fieldName).Scan(&column)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: %s.%s", schema.ErrUnknownField, objectName, fieldName)
		}
		return "", fmt.Errorf("resolve column for %s.%s: %w", objectName, fieldName, err)
	}
	return column, nil
}

// FileLinkTargets 枚举文件链接外键允许指向、且调用方可访问的对象类型。
func (c *Catalog) FileLinkTargets(ctx context.Context) ([]schema.ObjectRef, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT t.name, t.label, t.label_plural
	FROM file_link_targets flt
	JOIN entity_types t ON t.name = flt.entity_name
	WHERE t.is_accessible
	ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("load file link targets: %w", err)
	}
	defer rows.Close()

	var targets []schema.ObjectRef
	for rows.Next() {
		var ref schema.ObjectRef
		if err := rows.Scan(&ref.Name, &ref.Label, &ref.LabelPlural); err != nil {
			return nil, fmt.Errorf("scan file link target: %w", err)
		}
		targets = append(targets, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

func (c *Catalog) loadFields(ctx context.Context, objectName string) ([]schema.Field, error) {
	query := fmt.Sprintf(`SELECT %s FROM entity_fields WHERE entity_name = $1 ORDER BY position, name`,
		strings.Join(fieldColumns, ","))

	rows, err := c.db.QueryContext(ctx, query, objectName)
	if err != nil {
		return nil, fmt.Errorf("load fields for %s: %w", objectName, err)
	}
	defer rows.Close()

	var fields []schema.Field
	for rows.Next() {
		var f schema.Field
		if err := rows.Scan(&f.Name, &f.LocalName, &f.ColumnName, &f.Label, &f.HelpText, &f.Type); err != nil {
			return nil, fmt.Errorf("scan field of %s: %w", objectName, err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range fields {
		picklist, err := c.loadPicklist(ctx, objectName, fields[i].Name)
		if err != nil {
			return nil, err
		}
		fields[i].Picklist = picklist
	}

	return fields, nil
}

func (c *Catalog) loadPicklist(ctx context.Context, objectName, fieldName string) ([]schema.PicklistValue, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT value, label, is_active, position
	FROM picklist_entries
	WHERE entity_name = $1 AND field_name = $2
	ORDER BY position, value`, objectName, fieldName)
	if err != nil {
		return nil, fmt.Errorf("load picklist for %s.%s: %w", objectName, fieldName, err)
	}
	defer rows.Close()

	var values []schema.PicklistValue
	for rows.Next() {
		var pv schema.PicklistValue
		if err := rows.Scan(&pv.Value, &pv.Label, &pv.Active, &pv.Position); err != nil {
			return nil, fmt.Errorf("scan picklist value: %w", err)
		}
		values = append(values, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *Catalog) loadChildRelationships(ctx context.Context, objectName string) ([]schema.Relationship, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT relationship_name, fk_field_name, fk_field_label, child_entity
	FROM entity_relationships
	WHERE parent_entity = $1
	ORDER BY relationship_name, child_entity`, objectName)
	if err != nil {
		return nil, fmt.Errorf("load relationships for %s: %w", objectName, err)
	}
	defer rows.Close()

	var relationships []schema.Relationship
	for rows.Next() {
		var rel schema.Relationship
		if err := rows.Scan(&rel.RelationshipName, &rel.FieldName, &rel.FieldLabel, &rel.ChildObject); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		relationships = append(relationships, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return relationships, nil
}
