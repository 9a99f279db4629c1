package cli

import (
	"context"
	"fmt"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
	"github.com/harpproto/harp/internal/storage"
)

// state is the dyad state a command runs against: blob storage plus the
// pointer and epoch index. With --db all of it is durable; without, it
// lives and dies with the process.
type state struct {
	blobs  storage.Storage
	sqlite *storage.SQLite

	memPointers map[string]string
	memEpochs   map[string][]storage.EpochRow
}

// openState opens the state database named by --db, or an in-memory store
// when the flag is blank. The returned cleanup is safe to call on either.
func openState(opts *RootOptions) (*state, func(), error) {
	if opts.DB == "" {
		return &state{
			blobs:       storage.NewMemory(),
			memPointers: make(map[string]string),
			memEpochs:   make(map[string][]storage.EpochRow),
		}, func() {}, nil
	}

	db, err := storage.OpenSQLite(opts.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open state database", err)
	}
	return &state{blobs: db, sqlite: db}, func() { db.Close() }, nil
}

func stateKey(dyadID identity.DyadID, layer doc.Layer) string {
	return string(dyadID) + ":" + string(layer)
}

func (s *state) pointer(ctx context.Context, key string) (string, error) {
	if s.sqlite != nil {
		return s.sqlite.Pointer(ctx, key)
	}
	return s.memPointers[key], nil
}

func (s *state) initPointer(ctx context.Context, key, cid string) (bool, error) {
	if s.sqlite != nil {
		return s.sqlite.InitPointer(ctx, key, cid)
	}
	if _, exists := s.memPointers[key]; exists {
		return false, nil
	}
	s.memPointers[key] = cid
	return true, nil
}

func (s *state) advancePointer(ctx context.Context, key, from, to string) (bool, error) {
	if s.sqlite != nil {
		return s.sqlite.AdvancePointer(ctx, key, from, to)
	}
	if s.memPointers[key] != from {
		return false, nil
	}
	s.memPointers[key] = to
	return true, nil
}

func (s *state) appendEpoch(ctx context.Context, key string, row storage.EpochRow) error {
	if s.sqlite != nil {
		return s.sqlite.AppendEpoch(ctx, key, row)
	}
	s.memEpochs[key] = append(s.memEpochs[key], row)
	return nil
}

func (s *state) epochs(ctx context.Context, key string) ([]storage.EpochRow, error) {
	if s.sqlite != nil {
		return s.sqlite.Epochs(ctx, key)
	}
	return s.memEpochs[key], nil
}

// currentDocument loads and parses the current epoch of a dyad. A nil
// document with no error means the dyad has no pointer in this state.
func (s *state) currentDocument(ctx context.Context, dyadID identity.DyadID, layer doc.Layer) (*doc.Document, string, error) {
	cid, err := s.pointer(ctx, stateKey(dyadID, layer))
	if err != nil {
		return nil, "", err
	}
	if cid == "" {
		return nil, "", nil
	}

	raw, err := s.blobs.Retrieve(ctx, cid)
	if err != nil {
		return nil, "", fmt.Errorf("retrieve epoch %s: %w", cid, err)
	}
	d, err := doc.Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse epoch %s: %w", cid, err)
	}
	return d, cid, nil
}

// storeEpoch serializes, stores, and pins one epoch, returning its content
// id and the serialized bytes.
func (s *state) storeEpoch(ctx context.Context, d *doc.Document) (string, string, error) {
	raw := d.Raw
	if raw == "" {
		raw = doc.Serialize(d)
	}
	cid, err := s.blobs.Store(ctx, raw)
	if err != nil {
		return "", "", fmt.Errorf("store epoch %d: %w", d.Frontmatter.Epoch, err)
	}
	if err := s.blobs.Pin(ctx, cid); err != nil {
		return "", "", fmt.Errorf("pin epoch %d: %w", d.Frontmatter.Epoch, err)
	}
	return cid, raw, nil
}

// requireDyad loads the current epoch or fails with DYAD_NOT_FOUND.
func (s *state) requireDyad(ctx context.Context, f *OutputFormatter, dyadID identity.DyadID, layer doc.Layer) (*doc.Document, string, error) {
	d, cid, err := s.currentDocument(ctx, dyadID, layer)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "load dyad", err)
	}
	if d == nil {
		f.Error("DYAD_NOT_FOUND", fmt.Sprintf("dyad not found: %s (layer: %s)", dyadID, layer), nil)
		return nil, "", NewExitError(ExitFailure, "dyad not found")
	}
	return d, cid, nil
}
