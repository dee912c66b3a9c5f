package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"filescope/internal/schema"
)

// PicklistEntry 是描述结果里的一个启用选项。
type PicklistEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldDescribe 是描述结果里的字段条目。
type FieldDescribe struct {
	Name           string          `json:"name"`
	LocalName      string          `json:"localName"`
	Label          string          `json:"label"`
	HelpText       string          `json:"helpText"`
	PicklistValues []PicklistEntry `json:"picklistValues"`
}

// ChildRelationshipDescribe 是可挂载文件的子关系条目。
// 关系本身的显示标签无法从目录获得，这里刻意不提供。
type ChildRelationshipDescribe struct {
	RelationshipName  string `json:"relationshipName"`
	FieldName         string `json:"fieldName"`
	FieldLabel        string `json:"fieldLabel"`
	ObjectName        string `json:"objectName"`
	ObjectLabel       string `json:"objectLabel"`
	ObjectLabelPlural string `json:"objectLabelPlural"`
}

// ObjectDescribe 聚合对象的描述元数据。
type ObjectDescribe struct {
	Name               string                               `json:"name"`
	LocalName          string                               `json:"localName"`
	Label              string                               `json:"label"`
	LabelPlural        string                               `json:"labelPlural"`
	KeyPrefix          string                               `json:"keyPrefix"`
	Fields             map[string]FieldDescribe             `json:"fields"`
	ChildRelationships map[string]ChildRelationshipDescribe `json:"childRelationships"`
}

// DescribeService 把目录元数据整理成 UI 需要的描述结构。
type DescribeService struct {
	catalog schema.Catalog
}

func NewDescribeService(catalog schema.Catalog) *DescribeService {
	return &DescribeService{catalog: catalog}
}

// GetObjectDescribe 返回对象的字段描述（仅启用的选项）以及
// 允许挂载文件的子关系。
func (s *DescribeService) GetObjectDescribe(ctx context.Context, objectName string) (*ObjectDescribe, error) {
	if s == nil || s.catalog == nil {
		return nil, errors.New("describe service not initialized")
	}
	if objectName == "" {
		return nil, fmt.Errorf("object name is required")
	}

	obj, err := s.catalog.Object(ctx, objectName)
	if err != nil {
		return nil, err
	}

	targets, err := s.catalog.FileLinkTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve file link targets: %w", err)
	}
	allowed := make(map[string]schema.ObjectRef, len(targets))
	for _, ref := range targets {
		allowed[ref.Name] = ref
	}

	fields := make(map[string]FieldDescribe, len(obj.Fields))
	for _, f := range obj.Fields {
		fields[f.LocalName] = newFieldDescribe(f)
	}

	relationships := make(map[string]ChildRelationshipDescribe)
	for _, rel := range obj.ChildRelationships {
		if strings.TrimSpace(rel.RelationshipName) == "" {
			continue
		}
		ref, ok := allowed[rel.ChildObject]
		if !ok {
			continue
		}
		relationships[rel.RelationshipName] = ChildRelationshipDescribe{
			RelationshipName:  rel.RelationshipName,
			FieldName:         rel.FieldName,
			FieldLabel:        rel.FieldLabel,
			ObjectName:        ref.Name,
			ObjectLabel:       ref.Label,
			ObjectLabelPlural: ref.LabelPlural,
		}
	}

	return &ObjectDescribe{
		Name:               obj.Name,
		LocalName:          obj.LocalName,
		Label:              obj.Label,
		LabelPlural:        obj.LabelPlural,
		KeyPrefix:          obj.KeyPrefix,
		Fields:             fields,
		ChildRelationships: relationships,
	}, nil
}

func newFieldDescribe(f schema.Field) FieldDescribe {
	active := make([]PicklistEntry, 0, len(f.Picklist))
	for _, pv := range f.Picklist {
		if !pv.Active {
			continue
		}
		active = append(active, PicklistEntry{Label: pv.Label, Value: pv.Value})
	}
	return FieldDescribe{
		Name:           f.Name,
		LocalName:      f.LocalName,
		Label:          f.Label,
		HelpText:       f.HelpText,
		PicklistValues: active,
	}
}
