package menu

import (
	"github.com/kantinapp/kantin-gateway/internal/upstream"
)

// Entry is one catalog item, used to backfill display fields on order lines.
type Entry struct {
	MenuID      int                `json:"id_menu"`
	Name        string             `json:"nama_makanan"`
	Price       float64            `json:"harga"`
	PhotoURL    string             `json:"foto_url,omitempty"`
	Vendor      string             `json:"nama_stan,omitempty"`
	Description string             `json:"deskripsi,omitempty"`
	Raw         upstream.RawRecord `json:"-"`
}

// Catalog is the merged food+drink lookup set keyed by menu id. It is
// read-only reference data, rebuilt per enrichment pass.
type Catalog struct {
	entries map[int]Entry
	order   []int
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[int]Entry)}
}

// Add registers an entry; records with an unresolvable id are skipped.
// First occurrence of an id wins.
func (c *Catalog) Add(entry Entry) {
	if entry.MenuID <= 0 {
		return
	}
	if _, exists := c.entries[entry.MenuID]; exists {
		return
	}
	c.entries[entry.MenuID] = entry
	c.order = append(c.order, entry.MenuID)
}

// Lookup returns the entry for a menu id.
func (c *Catalog) Lookup(menuID int) (Entry, bool) {
	entry, ok := c.entries[menuID]
	return entry, ok
}

// Len reports how many entries the catalog holds.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all entries in insertion order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// EntryFromRecord maps a raw upstream menu record into a catalog entry,
// resolving the photo path against the upstream origin.
func EntryFromRecord(record upstream.RawRecord, resolve func(string) string) Entry {
	photo := record.Photo()
	if resolve != nil {
		photo = resolve(photo)
	}
	return Entry{
		MenuID:      record.MenuID(),
		Name:        record.Name(),
		Price:       record.Price(),
		PhotoURL:    photo,
		Vendor:      record.Vendor(),
		Description: record.Description(),
		Raw:         record,
	}
}
