package keepsake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ItemRepo defines the interface for item metadata persistence.
// Ownership is part of every lookup and update predicate, never a
// post-filter: a correct id with the wrong owner behaves exactly like
// a missing document.
type ItemRepo interface {
	// Insert stores a new item record and returns the identifier it
	// assigned. Identifiers are never reused.
	Insert(ctx context.Context, item Item) (string, error)

	// FindOne retrieves the item matching both ownerID and id.
	// Returns ErrNotFound if no such document exists for that owner.
	FindOne(ctx context.Context, ownerID, id string) (Item, error)

	// UpdateFields applies a partial update to the item matching
	// ownerID and id and reports how many documents matched the
	// predicate. Zero matches means nothing changed; callers must
	// treat that as not found rather than assuming success.
	UpdateFields(ctx context.Context, ownerID, id string, update ItemUpdate) (int64, error)

	// ListByOwner returns a finite snapshot of all items for the owner.
	// Re-querying yields a fresh snapshot, not a live cursor.
	ListByOwner(ctx context.Context, ownerID string) ([]Item, error)

	// ListKeys returns the storage keys of every item across all
	// owners. Used only by Sweep to find unreferenced objects.
	ListKeys(ctx context.Context) ([]string, error)
}

// ObjectStore defines the interface for payload storage.
// Put on an existing key overwrites it; the store never checks for
// pre-existence and never retries.
type ObjectStore interface {
	// Put writes the payload under key and returns a durable locator
	// URL for it.
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (string, error)

	// List returns every object currently in the store. Used only by
	// Sweep; can be expensive on large stores.
	List(ctx context.Context) ([]ObjectInfo, error)

	// Remove deletes the object at key. Used only by Sweep.
	Remove(ctx context.Context, key string) error
}

// Service reconciles item save and edit requests against the object
// store and the metadata repository. Object-store writes always happen
// strictly before metadata writes, so a failure between the two leaves
// an unreferenced object rather than a metadata record pointing at
// content that was never stored. Unreferenced objects are invisible to
// readers (items are only discovered via metadata) and are reclaimed by
// Sweep; a dangling locator would surface as a broken link.
//
// The two stores are not transactional and the service layers no
// retries on top of them: every collaborator failure propagates
// immediately, wrapped in its taxonomy sentinel.
type Service struct {
	repo  ItemRepo
	store ObjectStore
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests use it to pin the
// time-qualified text keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo ItemRepo, store ObjectStore, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveBinary stores a new binary item: payload first, metadata second.
// If the metadata insert fails the stored object is left in place and
// the error surfaces as ErrRepoUnavailable; Sweep reclaims it later.
func (s *Service) SaveBinary(ctx context.Context, req NewBinary) (BinaryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return BinaryReceipt{}, fmt.Errorf("save binary: %w", err)
	}

	if req.OwnerID == "" {
		return BinaryReceipt{}, fmt.Errorf("save binary: %w: ownerId", ErrMissingField)
	}
	if len(req.Payload) == 0 {
		return BinaryReceipt{}, fmt.Errorf("save binary: %w: file", ErrMissingField)
	}
	if req.FileName == "" {
		return BinaryReceipt{}, fmt.Errorf("save binary: %w: file name", ErrMissingField)
	}

	key := BinaryKey(req.OwnerID, req.FileName)
	if !IsValidKey(key) {
		return BinaryReceipt{}, fmt.Errorf("save binary %q: %w: file name", key, ErrMissingField)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	locator, err := s.store.Put(ctx, key, bytes.NewReader(req.Payload), int64(len(req.Payload)), contentType)
	if err != nil {
		return BinaryReceipt{}, fmt.Errorf("save binary %q: %w: %w", key, ErrStoreUnavailable, err)
	}

	now := s.now().UTC()
	id, err := s.repo.Insert(ctx, Item{
		OwnerID:     req.OwnerID,
		Kind:        KindBinary,
		Title:       req.FileName,
		MediaType:   MediaTypeFor(contentType),
		ContentType: contentType,
		SizeBytes:   int64(len(req.Payload)),
		StorageKey:  key,
		Locator:     locator,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// The object stays in the store; only Sweep reclaims it.
		return BinaryReceipt{}, fmt.Errorf("save binary %q: %w: %w", key, ErrRepoUnavailable, err)
	}

	return BinaryReceipt{ID: id, Locator: locator}, nil
}

// SaveText stores a new text item under a fresh time-qualified key.
// The key is built once and used for both the put and the persisted
// locator, so the record can never reference a key that was not written.
func (s *Service) SaveText(ctx context.Context, req NewText) (TextReceipt, error) {
	if err := ctx.Err(); err != nil {
		return TextReceipt{}, fmt.Errorf("save text: %w", err)
	}

	if req.OwnerID == "" {
		return TextReceipt{}, fmt.Errorf("save text: %w: ownerId", ErrMissingField)
	}
	if req.Text == "" {
		return TextReceipt{}, fmt.Errorf("save text: %w: text", ErrMissingField)
	}

	now := s.now().UTC()
	key := TextKey(req.OwnerID, now)

	locator, err := s.store.Put(ctx, key, strings.NewReader(req.Text), int64(len(req.Text)), "text/plain")
	if err != nil {
		return TextReceipt{}, fmt.Errorf("save text %q: %w: %w", key, ErrStoreUnavailable, err)
	}

	title := req.Title
	if title == "" {
		title = DeriveTitle(req.Text)
	}

	id, err := s.repo.Insert(ctx, Item{
		OwnerID:     req.OwnerID,
		Kind:        KindText,
		Title:       title,
		MediaType:   MediaTypeFor("text/plain"),
		ContentType: "text/plain",
		SizeBytes:   int64(len(req.Text)),
		StorageKey:  key,
		Locator:     locator,
		Body:        req.Text,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return TextReceipt{}, fmt.Errorf("save text %q: %w: %w", key, ErrRepoUnavailable, err)
	}

	return TextReceipt{ID: id, Locator: locator, Title: title, Body: req.Text}, nil
}

// EditText overwrites the body of an existing text item. The existing
// record is looked up first: an unknown id, or the id of a binary item,
// returns ErrNotFound before any store write happens. The overwrite
// reuses the item's persisted storage key, so edits land on the same
// object and never duplicate it.
//
// If the metadata update matches zero documents after the overwrite
// already landed (the record vanished between lookup and update), the
// call still reports ErrNotFound. That reconciliation gap is part of
// the protocol and is not corrected here.
func (s *Service) EditText(ctx context.Context, req EditText) (TextReceipt, error) {
	if err := ctx.Err(); err != nil {
		return TextReceipt{}, fmt.Errorf("edit text: %w", err)
	}

	if req.OwnerID == "" {
		return TextReceipt{}, fmt.Errorf("edit text: %w: ownerId", ErrMissingField)
	}
	if req.ItemID == "" {
		return TextReceipt{}, fmt.Errorf("edit text: %w: id", ErrMissingField)
	}
	if req.Text == "" {
		return TextReceipt{}, fmt.Errorf("edit text: %w: text", ErrMissingField)
	}

	item, err := s.repo.FindOne(ctx, req.OwnerID, req.ItemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TextReceipt{}, fmt.Errorf("edit text %s: %w", req.ItemID, ErrNotFound)
		}
		return TextReceipt{}, fmt.Errorf("edit text %s: %w: %w", req.ItemID, ErrRepoUnavailable, err)
	}

	// A binary item's payload is fixed at creation; only its title may
	// change. Its id does not name an editable text item, so it resolves
	// the same way as a missing one.
	if item.Kind != KindText {
		return TextReceipt{}, fmt.Errorf("edit text %s: %w", req.ItemID, ErrNotFound)
	}

	if _, err = s.store.Put(ctx, item.StorageKey, strings.NewReader(req.Text), int64(len(req.Text)), "text/plain"); err != nil {
		return TextReceipt{}, fmt.Errorf("edit text %q: %w: %w", item.StorageKey, ErrStoreUnavailable, err)
	}

	title := req.Title
	if title == "" {
		title = DeriveTitle(req.Text)
	}

	matched, err := s.repo.UpdateFields(ctx, req.OwnerID, req.ItemID, ItemUpdate{
		Title:     &title,
		Body:      &req.Text,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return TextReceipt{}, fmt.Errorf("edit text %s: %w: %w", req.ItemID, ErrRepoUnavailable, err)
	}
	if matched == 0 {
		return TextReceipt{}, fmt.Errorf("edit text %s: %w", req.ItemID, ErrNotFound)
	}

	return TextReceipt{ID: item.ID, Locator: item.Locator, Title: title, Body: req.Text}, nil
}

// EditTitle renames an item. No object-store interaction: only the
// metadata record changes. Matching (not modifying) the document counts
// as success, so retitling an item to its current title is idempotent.
func (s *Service) EditTitle(ctx context.Context, req EditTitle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("edit title: %w", err)
	}

	if req.OwnerID == "" {
		return fmt.Errorf("edit title: %w: ownerId", ErrMissingField)
	}
	if req.ItemID == "" {
		return fmt.Errorf("edit title: %w: id", ErrMissingField)
	}
	if req.Title == "" {
		return fmt.Errorf("edit title: %w: title", ErrMissingField)
	}

	matched, err := s.repo.UpdateFields(ctx, req.OwnerID, req.ItemID, ItemUpdate{
		Title:     &req.Title,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("edit title %s: %w: %w", req.ItemID, ErrRepoUnavailable, err)
	}
	if matched == 0 {
		return fmt.Errorf("edit title %s: %w", req.ItemID, ErrNotFound)
	}

	return nil
}

// List returns the owner's items.
func (s *Service) List(ctx context.Context, ownerID string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if ownerID == "" {
		return nil, fmt.Errorf("list items: %w: ownerId", ErrMissingField)
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w: %w", ErrRepoUnavailable, err)
	}

	return items, nil
}

// SweepOptions controls the unreferenced-object sweep.
type SweepOptions struct {
	// GracePeriod protects recent objects: a save's put lands before
	// its metadata insert, so an object younger than the grace period
	// may belong to a save still in flight.
	GracePeriod time.Duration
}

// Sweep removes objects from the store that no metadata record
// references and that are older than the grace period. It returns the
// number of objects removed.
//
// This is the only recovery path for objects orphaned by a metadata
// insert that failed after its put succeeded. It runs out of band
// (the sweep command), never inside a request.
func (s *Service) Sweep(ctx context.Context, opts SweepOptions) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	keys, err := s.repo.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w: %w", ErrRepoUnavailable, err)
	}

	referenced := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		referenced[k] = struct{}{}
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w: %w", ErrStoreUnavailable, err)
	}

	cutoff := s.now().Add(-opts.GracePeriod)
	removed := 0

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return removed, fmt.Errorf("sweep: %w", err)
		}

		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if !obj.LastModified.Before(cutoff) {
			continue
		}

		if err := s.store.Remove(ctx, obj.Key); err != nil {
			return removed, fmt.Errorf("sweep %q: %w: %w", obj.Key, ErrStoreUnavailable, err)
		}
		removed++
	}

	return removed, nil
}
