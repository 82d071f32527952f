package drift

import (
	"github.com/josephjohncox/driftline/pkg/catalog"
)

// TableID identifies the table an event targets.
type TableID struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
}

func (t TableID) String() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Kind names an event variant on the wire.
type Kind string

const (
	KindRenameTable  Kind = "rename_table"
	KindAddColumn    Kind = "add_column"
	KindDropColumn   Kind = "drop_column"
	KindModifyColumn Kind = "modify_column"
	KindChangeColumn Kind = "change_column"
	KindBatch        Kind = "batch"
)

// Event is a structural schema change detected upstream. The variant set is
// closed; implementations live in this package only. Events are immutable and
// consumed exactly once by a Handler.
type Event interface {
	Table() TableID
	Kind() Kind
	sealed()
}

// ColumnEvent is an Event operating on a single column. Only column events may
// appear inside a Batch, since a batch folds over one table's column layout.
type ColumnEvent interface {
	Event
	columnEvent()
}

// RenameTable renames the target table. It carries no column implications; the
// column schema passes through a Handler unchanged.
type RenameTable struct {
	TableID TableID
	To      string
}

// DropColumn removes the named column. Dropping a column that does not exist
// is a no-op, tolerating replayed drift streams.
type DropColumn struct {
	TableID TableID
	Name    string
}

// AddColumn inserts a column at the resolved position: first, after a named
// column, or appended. Adding a name that already exists behaves as a
// ModifyColumn with the same positioning.
type AddColumn struct {
	TableID TableID
	Column  catalog.Column
	First   bool
	After   string
}

// ModifyColumn replaces an existing column's definition, optionally moving it.
// Modifying a column that does not exist is a no-op.
type ModifyColumn struct {
	TableID TableID
	Column  catalog.Column
	First   bool
	After   string
}

// ChangeColumn renames (and optionally retypes) an existing column. When the
// replacement column's type is unset it inherits the old column's type, so a
// pure rename only needs the two names.
type ChangeColumn struct {
	TableID TableID
	From    string
	Column  catalog.Column
	First   bool
	After   string
}

// Batch applies column events in order as one logical unit. Later events may
// reference columns introduced or moved by earlier ones, so the order is
// binding.
type Batch struct {
	TableID TableID
	Events  []ColumnEvent
}

func (e RenameTable) Table() TableID { return e.TableID }
func (e DropColumn) Table() TableID { return e.TableID }
func (e AddColumn) Table() TableID { return e.TableID }
func (e ModifyColumn) Table() TableID { return e.TableID }
func (e ChangeColumn) Table() TableID { return e.TableID }
func (e Batch) Table() TableID { return e.TableID }

func (RenameTable) Kind() Kind { return KindRenameTable }
func (DropColumn) Kind() Kind { return KindDropColumn }
func (AddColumn) Kind() Kind { return KindAddColumn }
func (ModifyColumn) Kind() Kind { return KindModifyColumn }
func (ChangeColumn) Kind() Kind { return KindChangeColumn }
func (Batch) Kind() Kind { return KindBatch }

func (RenameTable) sealed() {}
func (DropColumn) sealed() {}
func (AddColumn) sealed() {}
func (ModifyColumn) sealed() {}
func (ChangeColumn) sealed() {}
func (Batch) sealed() {}

func (DropColumn) columnEvent() {}
func (AddColumn) columnEvent() {}
func (ModifyColumn) columnEvent() {}
func (ChangeColumn) columnEvent() {}
