package service

import (
	"context"
	"errors"
	"testing"

	"filescope/internal/schema"
)

type mockCatalog struct {
	object     *schema.Object
	objectErr  error
	targets    []schema.ObjectRef
	targetsErr error
}

func (m *mockCatalog) Object(ctx context.Context, name string) (*schema.Object, error) {
	if m.objectErr != nil {
		return nil, m.objectErr
	}
	return m.object, nil
}

func (m *mockCatalog) ObjectTable(ctx context.Context, objectName string) (string, error) {
	return "", schema.ErrUnknownObject
}

func (m *mockCatalog) FieldColumn(ctx context.Context, objectName, fieldName string) (string, error) {
	return "", schema.ErrUnknownField
}

func (m *mockCatalog) FileLinkTargets(ctx context.Context) ([]schema.ObjectRef, error) {
	if m.targetsErr != nil {
		return nil, m.targetsErr
	}
	return m.targets, nil
}

func describeFixture() *mockCatalog {
	return &mockCatalog{
		object: &schema.Object{
			Name:        "Account",
			LocalName:   "Account",
			Label:       "Account",
			LabelPlural: "Accounts",
			KeyPrefix:   "001",
			Fields: []schema.Field{
				{
					Name:      "acme__Status__c",
					LocalName: "Status__c",
					Label:     "Status",
					HelpText:  "Lifecycle state",
					Picklist: []schema.PicklistValue{
						{Value: "open", Label: "Open", Active: true},
						{Value: "legacy", Label: "Legacy", Active: false},
						{Value: "closed", Label: "Closed", Active: true},
					},
				},
				{Name: "Name", LocalName: "Name", Label: "Account Name"},
			},
			ChildRelationships: []schema.Relationship{
				{RelationshipName: "Cases", FieldName: "AccountId", FieldLabel: "Account", ChildObject: "Case"},
				{RelationshipName: "Orders", FieldName: "AccountId", FieldLabel: "Account", ChildObject: "Order"},
				{RelationshipName: "  ", FieldName: "AccountId", FieldLabel: "Account", ChildObject: "Case"},
			},
		},
		targets: []schema.ObjectRef{
			{Name: "Case", Label: "Case", LabelPlural: "Cases"},
			{Name: "WorkOrder", Label: "Work Order", LabelPlural: "Work Orders"},
		},
	}
}

func TestGetObjectDescribe_FieldsKeyedByLocalName(t *testing.T) {
	svc := NewDescribeService(describeFixture())

	describe, err := svc.GetObjectDescribe(context.Background(), "Account")
	if err != nil {
		t.Fatalf("GetObjectDescribe returned error: %v", err)
	}

	field, ok := describe.Fields["Status__c"]
	if !ok {
		t.Fatalf("expected field keyed by local name, got keys %v", mapKeys(describe.Fields))
	}
	if field.Name != "acme__Status__c" {
		t.Fatalf("unexpected full name: %s", field.Name)
	}
	if field.HelpText != "Lifecycle state" {
		t.Fatalf("unexpected help text: %s", field.HelpText)
	}
}

func TestGetObjectDescribe_FiltersInactivePicklistValues(t *testing.T) {
	svc := NewDescribeService(describeFixture())

	describe, err := svc.GetObjectDescribe(context.Background(), "Account")
	if err != nil {
		t.Fatalf("GetObjectDescribe returned error: %v", err)
	}

	values := describe.Fields["Status__c"].PicklistValues
	if len(values) != 2 {
		t.Fatalf("expected 2 active values, got %d", len(values))
	}
	for _, v := range values {
		if v.Value == "legacy" {
			t.Fatal("inactive picklist value leaked into describe output")
		}
	}
	if values[0].Label != "Open" || values[0].Value != "open" {
		t.Fatalf("unexpected first picklist entry: %+v", values[0])
	}
}

func TestGetObjectDescribe_RelationshipFiltering(t *testing.T) {
	svc := NewDescribeService(describeFixture())

	describe, err := svc.GetObjectDescribe(context.Background(), "Account")
	if err != nil {
		t.Fatalf("GetObjectDescribe returned error: %v", err)
	}

	if len(describe.ChildRelationships) != 1 {
		t.Fatalf("expected only the Cases relationship, got %v", mapKeys(describe.ChildRelationships))
	}
	rel, ok := describe.ChildRelationships["Cases"]
	if !ok {
		t.Fatal("Cases relationship missing")
	}
	if rel.ObjectLabelPlural != "Cases" {
		t.Fatalf("unexpected plural label: %s", rel.ObjectLabelPlural)
	}
	if rel.FieldName != "AccountId" || rel.FieldLabel != "Account" {
		t.Fatalf("foreign key fields not carried over: %+v", rel)
	}
}

func TestGetObjectDescribe_UnknownObject(t *testing.T) {
	catalog := &mockCatalog{objectErr: schema.ErrUnknownObject}
	svc := NewDescribeService(catalog)

	_, err := svc.GetObjectDescribe(context.Background(), "Nope")
	if !errors.Is(err, schema.ErrUnknownObject) {
		t.Fatalf("expected ErrUnknownObject, got %v", err)
	}
}

func TestGetObjectDescribe_TargetsErrorPropagates(t *testing.T) {
	catalog := describeFixture()
	catalog.targetsErr = errors.New("catalog unavailable")
	svc := NewDescribeService(catalog)

	if _, err := svc.GetObjectDescribe(context.Background(), "Account"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
