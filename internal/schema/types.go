package schema

// PicklistValue 是选择字段的一个候选项，含启用状态。
type PicklistValue struct {
	Value    string
	Label    string
	Active   bool
	Position int
}

// Field 描述目录中登记的一个字段。
type Field struct {
	Name       string
	LocalName  string
	ColumnName string
	Label      string
	HelpText   string
	Type       string
	Picklist   []PicklistValue
}

// Relationship 描述父对象上的一条子关系。
// 关系本身没有显示标签，目录只登记外键字段的名称与标签。
type Relationship struct {
	RelationshipName string
	FieldName        string
	FieldLabel       string
	ChildObject      string
}

// ObjectRef 是对象的轻量引用，携带展示用标签。
type ObjectRef struct {
	Name        string
	Label       string
	LabelPlural string
}

// Object 聚合一个对象类型的全部目录元数据。
type Object struct {
	Name               string
	LocalName          string
	Label              string
	LabelPlural        string
	KeyPrefix          string
	TableName          string
	Accessible         bool
	Fields             []Field
	ChildRelationships []Relationship
}
