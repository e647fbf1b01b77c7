// Package record implements repeating-record sections: an ordered collection
// of records sharing one schema, filled through a draft that is validated and
// committed, removed by id, and projected as a table.
package record
