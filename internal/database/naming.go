package database

// Constraint names follow one convention across the schema so that
// repositories can map violations back to the column that caused them.

// PrimaryKey returns "pk_<table>".
func PrimaryKey(table string) string {
	return "pk_" + table
}

// Unique returns "uq_<table>_<first column>".
func Unique(table, column string) string {
	return "uq_" + table + "_" + column
}

// Check returns "ck_<table>_<name>".
func Check(table, name string) string {
	return "ck_" + table + "_" + name
}

// ForeignKey returns "fk_<table>_<column>_<referred table>".
func ForeignKey(table, column, referred string) string {
	return "fk_" + table + "_" + column + "_" + referred
}

// Index returns "ix_<table>_<column>".
func Index(table, column string) string {
	return "ix_" + table + "_" + column
}
