package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	bolt "go.etcd.io/bbolt"

	"invoices/pkg/models"
)

var (
	// ErrNotFound is returned when an invoice does not exist.
	ErrNotFound = errors.New("invoice not found")

	// ErrExists is returned when creating an invoice whose id is taken.
	ErrExists = errors.New("invoice already exists")
)

// BucketInvoices holds invoice records keyed by id.
const BucketInvoices = "invoices"

// Store persists invoices. List returns them in insertion order.
type Store interface {
	List() ([]models.Invoice, error)
	Get(id string) (*models.Invoice, error)
	Create(inv *models.Invoice) error
	Update(inv *models.Invoice) error
	Delete(id string) (*models.Invoice, error)
	Close() error
}

// record is the stored form of an invoice. Seq keeps insertion order across updates.
type record struct {
	Seq     uint64          `json:"seq"`
	Invoice json.RawMessage `json:"invoice"`
}

func encodeRecord(seq uint64, inv *models.Invoice) ([]byte, error) {
	data, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice: %w", err)
	}
	return json.Marshal(record{Seq: seq, Invoice: data})
}

func decodeRecord(data []byte) (record, *models.Invoice, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	var inv models.Invoice
	if err := json.Unmarshal(rec.Invoice, &inv); err != nil {
		return record{}, nil, fmt.Errorf("failed to unmarshal invoice: %w", err)
	}
	return rec, &inv, nil
}

func sortRecords(raw [][]byte) ([]models.Invoice, error) {
	type entry struct {
		seq uint64
		inv *models.Invoice
	}
	entries := make([]entry, 0, len(raw))
	for _, data := range raw {
		rec, inv, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{seq: rec.Seq, inv: inv})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	invoices := make([]models.Invoice, len(entries))
	for i, e := range entries {
		invoices[i] = *e.inv
	}
	return invoices, nil
}

// MemoryStore keeps invoices in memory. Records are stored encoded so that callers never
// share memory with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	seq     uint64
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) List() ([]models.Invoice, error) {
	s.mu.RLock()
	raw := make([][]byte, 0, len(s.records))
	for _, data := range s.records {
		raw = append(raw, data)
	}
	s.mu.RUnlock()

	return sortRecords(raw)
}

func (s *MemoryStore) Get(id string) (*models.Invoice, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	_, inv, err := decodeRecord(data)
	return inv, err
}

func (s *MemoryStore) Create(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[inv.ID]; ok {
		return ErrExists
	}
	s.seq++
	data, err := encodeRecord(s.seq, inv)
	if err != nil {
		return err
	}
	s.records[inv.ID] = data
	return nil
}

func (s *MemoryStore) Update(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[inv.ID]
	if !ok {
		return ErrNotFound
	}
	rec, _, err := decodeRecord(existing)
	if err != nil {
		return err
	}
	data, err := encodeRecord(rec.Seq, inv)
	if err != nil {
		return err
	}
	s.records[inv.ID] = data
	return nil
}

func (s *MemoryStore) Delete(id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.records, id)

	_, inv, err := decodeRecord(data)
	return inv, err
}

func (s *MemoryStore) Close() error {
	return nil
}

// BoltStore keeps invoices in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketInvoices)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketInvoices, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) List() ([]models.Invoice, error) {
	var raw [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketInvoices)).ForEach(func(k, v []byte) error {
			// Values are only valid during the transaction.
			copied := make([]byte, len(v))
			copy(copied, v)
			raw = append(raw, copied)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sortRecords(raw)
}

func (s *BoltStore) Get(id string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketInvoices)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		_, inv, err = decodeRecord(data)
		return err
	})
	return inv, err
}

func (s *BoltStore) Create(inv *models.Invoice) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketInvoices))
		if b.Get([]byte(inv.ID)) != nil {
			return ErrExists
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := encodeRecord(seq, inv)
		if err != nil {
			return err
		}
		return b.Put([]byte(inv.ID), data)
	})
}

func (s *BoltStore) Update(inv *models.Invoice) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketInvoices))
		existing := b.Get([]byte(inv.ID))
		if existing == nil {
			return ErrNotFound
		}
		rec, _, err := decodeRecord(existing)
		if err != nil {
			return err
		}
		data, err := encodeRecord(rec.Seq, inv)
		if err != nil {
			return err
		}
		return b.Put([]byte(inv.ID), data)
	})
}

func (s *BoltStore) Delete(id string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketInvoices))
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var err error
		if _, inv, err = decodeRecord(data); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
	return inv, err
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
