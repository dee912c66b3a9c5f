package schema

import (
	"context"
	"errors"
)

// ErrUnknownObject 表示目录中不存在该对象类型。
var ErrUnknownObject = errors.New("schema: unknown object")

// ErrUnknownField 表示对象上不存在该字段。
var ErrUnknownField = errors.New("schema: unknown field")

// Catalog 统一对象目录的只读接口。
// ObjectTable 与 FieldColumn 返回的是目录登记的物理标识符，
// 动态查询只能使用这里返回的值，绝不直接拼接调用方输入。
type Catalog interface {
	Object(ctx context.Context, name string) (*Object, error)
	ObjectTable(ctx context.Context, objectName string) (string, error)
	FieldColumn(ctx context.Context, objectName, fieldName string) (string, error)
	FileLinkTargets(ctx context.Context) ([]ObjectRef, error)
}
