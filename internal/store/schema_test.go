package store

import (
	"testing"

	"entgo.io/ent"
	sqlschema "entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/mathquest/ent/schema"
)

type entSchema interface {
	Mixin() []ent.Mixin
	Fields() []ent.Field
}

func entFields(s entSchema) []ent.Field {
	var fields []ent.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	return append(fields, s.Fields()...)
}

// The migrated tables must match the declarative ent schemas column for column.
func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table  *sqlschema.Table
		schema entSchema
	}{
		{BattleRecordsTable, entschema.BattleRecord{}},
		{PracticeSessionsTable, entschema.PracticeSession{}},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			fields := entFields(tt.schema)
			if len(fields) != len(tt.table.Columns) {
				t.Fatalf("ent schema has %d fields, table has %d columns", len(fields), len(tt.table.Columns))
			}
			for i, f := range fields {
				d := f.Descriptor()
				col := tt.table.Columns[i]
				if d.Name != col.Name {
					t.Errorf("column %d: name = %q, ent field = %q", i, col.Name, d.Name)
					continue
				}
				if d.Info.Type != col.Type {
					t.Errorf("%s: type = %v, ent field = %v", col.Name, col.Type, d.Info.Type)
				}
				if d.Unique != col.Unique {
					t.Errorf("%s: unique = %v, ent field = %v", col.Name, col.Unique, d.Unique)
				}
				if d.Optional != col.Nullable {
					t.Errorf("%s: nullable = %v, ent field optional = %v", col.Name, col.Nullable, d.Optional)
				}
			}
		})
	}
}
