package adapters

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

// Capabilities lists the optional hooks a registered bidder implements.
type Capabilities struct {
	Timeout     bool `json:"timeout"`
	BidderError bool `json:"bidderError"`
	BidWon      bool `json:"bidWon"`
}

type registryEntry struct {
	bidder       Bidder
	info         BidderInfo
	capabilities Capabilities
}

// Registry holds the bidders a host can route slots to, keyed by bidder code and alias.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[openrtb_ext.BidderName]*registryEntry
	aliases map[string]openrtb_ext.BidderName
	logger  logger.Logger
}

func NewRegistry(l logger.Logger) *Registry {
	if l == nil {
		l = logger.Default()
	}
	return &Registry{
		entries: make(map[openrtb_ext.BidderName]*registryEntry),
		aliases: make(map[string]openrtb_ext.BidderName),
		logger:  l,
	}
}

// Register adds bidder under its code and the aliases listed in info.
//
// The code must be unique and the info must declare site support for banner only.
// An alias which collides with a registered code or alias is skipped with a warning,
// so a bidder code always wins over another bidder's alias.
func (r *Registry) Register(bidder Bidder, info BidderInfo) error {
	if bidder == nil {
		return fmt.Errorf("cannot register a nil bidder")
	}
	code := bidder.Code()
	if code == "" {
		return fmt.Errorf("bidder code must not be empty")
	}
	if err := validateInfo(code, info); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.entries[code]; taken {
		return fmt.Errorf("bidder %s is already registered", code)
	}
	if owner, taken := r.aliases[string(code)]; taken {
		r.logger.Warnf("bidder %s shadows the %s alias of %s", code, code, owner)
		delete(r.aliases, string(code))
	}

	r.entries[code] = &registryEntry{
		bidder:       bidder,
		info:         info,
		capabilities: capabilitiesOf(bidder),
	}

	for _, alias := range info.Aliases {
		alias = strings.ToLower(alias)
		if _, taken := r.entries[openrtb_ext.BidderName(alias)]; taken {
			r.logger.Warnf("alias %s of %s collides with a bidder code and is ignored", alias, code)
			continue
		}
		if owner, taken := r.aliases[alias]; taken {
			r.logger.Warnf("alias %s of %s is already used by %s and is ignored", alias, code, owner)
			continue
		}
		r.aliases[alias] = code
	}
	return nil
}

// Lookup resolves a bidder code or alias.
func (r *Registry) Lookup(name string) (Bidder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.resolve(name)
	if !ok {
		return nil, false
	}
	return entry.bidder, true
}

// Info returns the bidder info of a code or alias.
func (r *Registry) Info(name string) (BidderInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.resolve(name)
	if !ok {
		return BidderInfo{}, false
	}
	return entry.info, true
}

// Capabilities returns the optional hooks of a code or alias.
func (r *Registry) Capabilities(name string) (Capabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.resolve(name)
	if !ok {
		return Capabilities{}, false
	}
	return entry.capabilities, true
}

// Bidders returns the registered codes in lexical order.
func (r *Registry) Bidders() []openrtb_ext.BidderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]openrtb_ext.BidderName, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Aliases returns a copy of the alias to code mapping.
func (r *Registry) Aliases() map[string]openrtb_ext.BidderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make(map[string]openrtb_ext.BidderName, len(r.aliases))
	for alias, code := range r.aliases {
		aliases[alias] = code
	}
	return aliases
}

// Infos returns the bidder info of every registered code.
func (r *Registry) Infos() BidderInfos {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make(BidderInfos, len(r.entries))
	for name, entry := range r.entries {
		infos[string(name)] = entry.info
	}
	return infos
}

func (r *Registry) resolve(name string) (*registryEntry, bool) {
	name = strings.ToLower(name)
	if entry, ok := r.entries[openrtb_ext.BidderName(name)]; ok {
		return entry, true
	}
	if code, ok := r.aliases[name]; ok {
		return r.entries[code], true
	}
	return nil, false
}

func validateInfo(code openrtb_ext.BidderName, info BidderInfo) error {
	if info.Capabilities == nil || info.Capabilities.Site == nil {
		return fmt.Errorf("bidder %s must declare site capabilities", code)
	}
	mediaTypes := info.Capabilities.Site.MediaTypes
	if len(mediaTypes) == 0 {
		return fmt.Errorf("bidder %s must support at least one media type", code)
	}
	for _, mediaType := range mediaTypes {
		if mediaType != openrtb_ext.BidTypeBanner {
			return fmt.Errorf("bidder %s declares unsupported media type %s", code, mediaType)
		}
	}
	return nil
}

func capabilitiesOf(bidder Bidder) Capabilities {
	_, timeout := bidder.(TimeoutNotifier)
	_, bidderError := bidder.(BidderErrorNotifier)
	_, bidWon := bidder.(BidWonNotifier)
	return Capabilities{
		Timeout:     timeout,
		BidderError: bidderError,
		BidWon:      bidWon,
	}
}
