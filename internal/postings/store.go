package postings

// Store holds one List per term id within a partition. Term ids are dense
// and allocated in first-seen order by the caller (internal/partition);
// Store never compacts or reuses an id.
type Store struct {
	lists []*List
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add registers a fresh, empty List for a newly-allocated term id. The
// returned termID is the number of lists held before the call (ids are
// assigned sequentially).
func (s *Store) Add() (termID uint32, list *List) {
	termID = uint32(len(s.lists))
	list = &List{}
	s.lists = append(s.lists, list)
	return termID, list
}

// Get returns the List for termID, or nil if termID is out of range.
func (s *Store) Get(termID uint32) *List {
	if int(termID) >= len(s.lists) {
		return nil
	}
	return s.lists[termID]
}

// Len returns the number of distinct terms registered.
func (s *Store) Len() int {
	return len(s.lists)
}

// FlushAll calls Flush on every list that has an open run. No ingestion
// path calls it; the indexer flushes touched lists itself per document.
func (s *Store) FlushAll() {
	for _, l := range s.lists {
		l.Flush()
	}
}

// SetAt installs list as the posting list for termID, growing the backing
// slice if needed. Used by persist when reloading a partition so term ids
// come back out in the same dense order they were assigned during
// ingestion.
func (s *Store) SetAt(termID uint32, list *List) {
	for uint32(len(s.lists)) <= termID {
		s.lists = append(s.lists, nil)
	}
	s.lists[termID] = list
}

// All returns every List in term-id order. Persistence walks the store
// by id with Get instead.
func (s *Store) All() []*List {
	return s.lists
}
