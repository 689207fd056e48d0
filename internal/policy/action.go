package policy

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView          Action = "view"
	ActionList          Action = "list"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionAssignManager Action = "assign_manager"
)

// ResourceKind names the resource type an action targets.
type ResourceKind string

const (
	KindProduct  ResourceKind = "product"
	KindStore    ResourceKind = "store"
	KindSupplier ResourceKind = "supplier"
	KindUser     ResourceKind = "user"
)
