package natskv

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

type fakeEntry struct {
	jetstream.KeyValueEntry
	value []byte
}

func (e fakeEntry) Value() []byte { return e.value }

type fakeBucket struct {
	values   map[string][]byte
	revision uint64
	getErr   error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{values: make(map[string][]byte)}
}

func (b *fakeBucket) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	value, ok := b.values[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{value: value}, nil
}

func (b *fakeBucket) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	b.revision++
	b.values[key] = value
	return b.revision, nil
}

func (b *fakeBucket) Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error {
	if _, ok := b.values[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(b.values, key)
	return nil
}

func TestSlotMapsBucketOperations(t *testing.T) {
	ctx := context.Background()
	kv := newFakeBucket()
	slot := &Slot{kv: kv}

	_, err := slot.Get(ctx, "matches")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, slot.Put(ctx, "matches", []byte(`[{"id":"1"}]`)))
	got, err := slot.Get(ctx, "matches")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, slot.Delete(ctx, "matches"))
	require.NoError(t, slot.Delete(ctx, "matches"), "deleting a missing key is not an error")
	assert.NoError(t, slot.Close())
}

func TestSlotWrapsBucketErrors(t *testing.T) {
	kv := newFakeBucket()
	kv.getErr = errors.New("timeout")
	slot := &Slot{kv: kv}

	_, err := slot.Get(context.Background(), "matches")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "timeout")
}

func TestDefaultConfigDecode(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, storage.Settings{"bucket": "FIELD_A", "history": 10}.Decode(&cfg))
	assert.Equal(t, "FIELD_A", cfg.Bucket)
	assert.Equal(t, 10, cfg.History)
	assert.Equal(t, -1, cfg.MaxReconnects)
}
