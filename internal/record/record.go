package record

import (
	"strconv"
)

// ID identifies a committed record for the lifetime of its collection.
// It is never reused and never renumbered when other records are removed.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseID parses the decimal form produced by ID.String.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

type Record struct {
	ID     ID                `json:"id"`
	Values map[string]string `json:"values"`
}

func (r Record) Get(field string) string { return r.Values[field] }

func (r Record) clone() Record {
	return Record{ID: r.ID, Values: cloneValues(r.Values)}
}

func cloneValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Collection is an ordered list of records. Display order is insertion order.
//
// A Collection is not safe for concurrent use; it is owned by one event loop.
type Collection struct {
	records []Record
	lastID  ID
}

func NewCollection() *Collection { return &Collection{} }

// Append adds a copy of values at the tail and returns the new record's id.
// No validation happens here.
func (c *Collection) Append(values map[string]string) ID {
	c.lastID++
	c.records = append(c.records, Record{ID: c.lastID, Values: cloneValues(values)})
	return c.lastID
}

// Remove deletes the record with id. Unknown ids are ignored.
func (c *Collection) Remove(id ID) bool {
	for i, r := range c.records {
		if r.ID != id {
			continue
		}
		c.records = append(c.records[:i:i], c.records[i+1:]...)
		return true
	}
	return false
}

func (c *Collection) Len() int { return len(c.records) }

// Records returns a copy of the records in display order.
func (c *Collection) Records() []Record {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.clone())
	}
	return out
}

func (c *Collection) Get(id ID) (Record, bool) {
	for _, r := range c.records {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return Record{}, false
}

// Position returns the 1-based row number currently shown for id, or 0.
func (c *Collection) Position(id ID) int {
	for i, r := range c.records {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}

// At returns the record shown at 1-based row n.
func (c *Collection) At(n int) (Record, bool) {
	if n < 1 || n > len(c.records) {
		return Record{}, false
	}
	return c.records[n-1].clone(), true
}
