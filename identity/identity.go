// Package identity keeps the first-party identifier the legacy bidder attaches
// to its requests. Each browser's record lives in a storage.Store under Key(clientID).
package identity

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/buger/jsonparser"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/storage"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
	"github.com/marphezis/prebid-adapters/util/uuidutil"
)

// StorageKey prefixes the key the record is persisted under.
const StorageKey = "_iiq_fdata"

// Key is the storage key of the record belonging to clientID.
func Key(clientID string) string {
	return StorageKey + ":" + clientID
}

// FirstPartyData is the persisted record. PCIDDate is the creation time in
// milliseconds since the epoch.
type FirstPartyData struct {
	PCID     string `json:"pcid"`
	PCIDDate int64  `json:"pcidDate"`
}

// Outcome tells what LoadOrCreate did with the stored record.
type Outcome int

const (
	// Reused means the stored record was complete.
	Reused Outcome = iota
	// Created means a new identifier was generated.
	Created
	// Stamped means a stored identifier got its missing creation date.
	Stamped
	// Failed means no identifier could be produced.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Reused:
		return "reused"
	case Created:
		return "created"
	case Stamped:
		return "stamped"
	}
	return "failed"
}

// Manager loads and creates the records. A nil store or an empty client id turns
// persistence off and the call creates a fresh identifier.
//
// Reads and writes are not synchronized: two concurrent callers finding no
// record both create one and the last write wins.
type Manager struct {
	store  storage.Store
	clock  clock.Clock
	ids    uuidutil.UUIDGenerator
	logger logger.Logger
}

func NewManager(store storage.Store, clk clock.Clock, ids uuidutil.UUIDGenerator, l logger.Logger) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	if ids == nil {
		ids = uuidutil.UUIDRandomGenerator{}
	}
	if l == nil {
		l = logger.Default()
	}
	return &Manager{
		store:  store,
		clock:  clk,
		ids:    ids,
		logger: l,
	}
}

// LoadOrCreate returns the stored record, creating it when it is missing or
// unreadable and stamping a creation date when only that is missing.
// Storage failures are logged and never returned.
func (m *Manager) LoadOrCreate(ctx context.Context, clientID string) (FirstPartyData, Outcome) {
	store := m.store
	if clientID == "" {
		store = nil
	}
	key := Key(clientID)
	data, found := m.load(ctx, store, key)

	if !found || data.PCID == "" {
		id, err := m.ids.Generate()
		if err != nil {
			m.logger.Errorf("failed to generate first-party id: %v", err)
			return FirstPartyData{}, Failed
		}
		data = FirstPartyData{PCID: id, PCIDDate: m.now()}
		m.save(ctx, store, key, data)
		return data, Created
	}

	if data.PCIDDate == 0 {
		data.PCIDDate = m.now()
		m.save(ctx, store, key, data)
		return data, Stamped
	}

	return data, Reused
}

func (m *Manager) load(ctx context.Context, store storage.Store, key string) (FirstPartyData, bool) {
	if store == nil {
		return FirstPartyData{}, false
	}

	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warnf("failed to read %s: %v", key, err)
		}
		return FirstPartyData{}, false
	}

	if !jsonutil.IsObject(raw) {
		return FirstPartyData{}, false
	}

	var data FirstPartyData
	if pcid, err := jsonparser.GetString(raw, "pcid"); err == nil {
		data.PCID = pcid
	}
	if date, err := jsonparser.GetInt(raw, "pcidDate"); err == nil {
		data.PCIDDate = date
	}
	return data, true
}

func (m *Manager) save(ctx context.Context, store storage.Store, key string, data FirstPartyData) {
	if store == nil {
		return
	}

	raw, err := jsonutil.Marshal(data)
	if err != nil {
		m.logger.Errorf("failed to encode %s: %v", key, err)
		return
	}
	if err := store.Set(ctx, key, raw); err != nil {
		m.logger.Warnf("failed to write %s: %v", key, err)
	}
}

func (m *Manager) now() int64 {
	return m.clock.Now().UnixMilli()
}
