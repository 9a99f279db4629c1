package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/score"
	"github.com/harpproto/harp/internal/storage"
)

// Config configures a Client.
type Config struct {
	// Identity is the entity this client acts as. Used as the sender of
	// outbound relationship messages.
	Identity identity.EntityID

	// Storage holds serialized epochs. Defaults to an in-memory backend.
	Storage storage.Storage

	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Client manages dyads: it creates them, advances their epochs, and answers
// queries against the current epoch. Safe for concurrent use.
type Client struct {
	identity identity.EntityID
	storage  storage.Storage
	now      func() time.Time

	mu       sync.Mutex
	pointers map[string]string
	history  map[string][]doc.EpochRef
}

// New returns a Client for the given configuration.
func New(cfg Config) *Client {
	st := cfg.Storage
	if st == nil {
		st = storage.NewMemory()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		identity: cfg.Identity,
		storage:  st,
		now:      now,
		pointers: make(map[string]string),
		history:  make(map[string][]doc.EpochRef),
	}
}

// Storage returns the underlying storage backend.
func (c *Client) Storage() storage.Storage {
	return c.storage
}

func pointerKey(dyadID identity.DyadID, layer doc.Layer) string {
	return string(dyadID) + ":" + string(layer)
}

// CreateDyad creates a dyad's epoch 1 document, stores it, and sets the
// epoch pointer. Returns the document and its content id.
func (c *Client) CreateDyad(ctx context.Context, entityA, entityB doc.EntityDescriptor, layer doc.Layer, preamble string) (*doc.Document, string, error) {
	d, err := doc.Create(entityA, entityB, layer, preamble, c.now())
	if err != nil {
		return nil, "", err
	}

	cid, err := c.storage.Store(ctx, d.Raw)
	if err != nil {
		return nil, "", fmt.Errorf("store epoch 1: %w", err)
	}
	if err := c.storage.Pin(ctx, cid); err != nil {
		return nil, "", fmt.Errorf("pin epoch 1: %w", err)
	}

	key := pointerKey(identity.DyadID(d.Frontmatter.Dyad), layer)
	c.mu.Lock()
	c.pointers[key] = cid
	c.history[key] = []doc.EpochRef{d.Ref(cid)}
	c.mu.Unlock()

	return d, cid, nil
}

// GetDyad returns the current epoch of a dyad, or nil (with no error) when
// the dyad was never created through this client.
func (c *Client) GetDyad(ctx context.Context, dyadID identity.DyadID, layer doc.Layer) (*doc.Document, error) {
	c.mu.Lock()
	cid, ok := c.pointers[pointerKey(dyadID, layer)]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return c.load(ctx, cid)
}

func (c *Client) load(ctx context.Context, cid string) (*doc.Document, error) {
	raw, err := c.storage.Retrieve(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("retrieve epoch %s: %w", cid, err)
	}
	d, err := doc.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse epoch %s: %w", cid, err)
	}
	return d, nil
}

// AddSection appends a section to the dyad's current epoch and advances the
// pointer to the resulting next epoch. Returns the new document and its
// content id.
//
// The swap is compare-and-set: if another writer advanced the pointer after
// this call read it, AddSection returns EPOCH_CONFLICT and stores nothing
// behind the pointer. Callers retry to rebase onto the new current epoch.
func (c *Client) AddSection(ctx context.Context, dyadID identity.DyadID, layer doc.Layer, sec doc.Section) (*doc.Document, string, error) {
	key := pointerKey(dyadID, layer)

	c.mu.Lock()
	previousCID, ok := c.pointers[key]
	c.mu.Unlock()
	if !ok {
		return nil, "", &Error{Code: ErrCodeDyadNotFound, Dyad: dyadID, Layer: layer}
	}

	current, err := c.load(ctx, previousCID)
	if err != nil {
		return nil, "", err
	}

	next, err := current.WithSection(sec).NextEpoch(previousCID, c.now())
	if err != nil {
		return nil, "", err
	}
	raw := doc.Serialize(next)

	cid, err := c.storage.Store(ctx, raw)
	if err != nil {
		return nil, "", fmt.Errorf("store epoch %d: %w", next.Frontmatter.Epoch, err)
	}
	if err := c.storage.Pin(ctx, cid); err != nil {
		return nil, "", fmt.Errorf("pin epoch %d: %w", next.Frontmatter.Epoch, err)
	}
	next.Raw = raw

	c.mu.Lock()
	if c.pointers[key] != previousCID {
		c.mu.Unlock()
		return nil, "", &Error{Code: ErrCodeEpochConflict, Dyad: dyadID, Layer: layer}
	}
	c.pointers[key] = cid
	c.history[key] = append(c.history[key], next.Ref(cid))
	c.mu.Unlock()

	return next, cid, nil
}

// QuerySections filters the current epoch's sections. An unknown dyad
// yields an empty result, not an error.
func (c *Client) QuerySections(ctx context.Context, dyadID identity.DyadID, layer doc.Layer, f doc.Filter) ([]doc.Section, error) {
	d, err := c.GetDyad(ctx, dyadID, layer)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return doc.FilterSections(d, f), nil
}

// TrustScore derives the trust score of the dyad's current epoch. Returns
// nil for an unknown dyad.
func (c *Client) TrustScore(ctx context.Context, dyadID identity.DyadID, layer doc.Layer) (*score.DerivedScore, error) {
	d, err := c.GetDyad(ctx, dyadID, layer)
	if err != nil || d == nil {
		return nil, err
	}
	s := score.DeriveTrustScore(d, c.now())
	return &s, nil
}

// CollaborationReadiness assesses the dyad's current epoch. Returns nil for
// an unknown dyad.
func (c *Client) CollaborationReadiness(ctx context.Context, dyadID identity.DyadID, layer doc.Layer) (*score.CollaborationReadiness, error) {
	d, err := c.GetDyad(ctx, dyadID, layer)
	if err != nil || d == nil {
		return nil, err
	}
	r := score.AssessCollaborationReadiness(d)
	return &r, nil
}

// EpochHistory returns the chain of epoch references for a dyad, oldest
// first. The returned slice is a copy.
func (c *Client) EpochHistory(dyadID identity.DyadID, layer doc.Layer) []doc.EpochRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	refs := c.history[pointerKey(dyadID, layer)]
	out := make([]doc.EpochRef, len(refs))
	copy(out, refs)
	return out
}

// CurrentCID returns the content id behind the dyad's epoch pointer, or ""
// when the dyad is unknown.
func (c *Client) CurrentCID(dyadID identity.DyadID, layer doc.Layer) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointers[pointerKey(dyadID, layer)]
}
