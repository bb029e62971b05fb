// Package macvendor maps client hardware addresses to vendor names using a
// macdb.json style OUI database loaded into memory.
package macvendor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bobbymcr/DhcpServer-sub000/pkg/dhcpv4"
)

// Entry represents a single MAC vendor database record.
type Entry struct {
	MacPrefix  string `json:"macPrefix"`
	VendorName string `json:"vendorName"`
	Private    bool   `json:"private"`
	BlockType  string `json:"blockType"`
}

// DB is the in-memory MAC vendor database.
type DB struct {
	mu      sync.RWMutex
	vendors map[string]string // normalized prefix -> vendor name
}

// NewDB creates a new empty MAC vendor database.
func NewDB() *DB {
	return &DB{vendors: make(map[string]string)}
}

// LoadFile reads and loads the database at path.
func LoadFile(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mac vendor db %s: %w", path, err)
	}
	db := NewDB()
	if err := db.Load(data); err != nil {
		return nil, err
	}
	return db, nil
}

// Load parses a macdb.json byte slice, replacing the current contents.
func (db *DB) Load(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing mac vendor db: %w", err)
	}

	vendors := make(map[string]string, len(entries))
	for _, e := range entries {
		if prefix := normalize(e.MacPrefix); prefix != "" {
			vendors[prefix] = e.VendorName
		}
	}

	db.mu.Lock()
	db.vendors = vendors
	db.mu.Unlock()
	return nil
}

// Lookup returns the vendor for mac, or "" if unknown. The longest
// registered prefix wins (MA-S, then MA-M, then MA-L).
func (db *DB) Lookup(mac dhcpv4.MACAddress) string {
	var buf [12]byte
	hex := dhcpv4.AppendHexBytes(buf[:0], mac[:], 0)

	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, n := range [...]int{9, 7, 6} {
		if vendor, ok := db.vendors[string(hex[:n])]; ok {
			return vendor
		}
	}
	return ""
}

// Count returns the number of vendor entries loaded.
func (db *DB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.vendors)
}

// normalize converts "00:00:0C", "00-00-0C" or "0000.0C" to "00000c".
func normalize(prefix string) string {
	s := strings.NewReplacer(":", "", "-", "", ".", "").Replace(prefix)
	return strings.ToLower(s)
}
