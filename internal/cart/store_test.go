package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"mvee-store/internal/domain/model"
	"mvee-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// Fakes
// =====================

// メモリだけのスナップショット置き場
type fakeSnapshotRepo struct {
	payloads map[string]string
	saveErr  error
	loadErr  error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{payloads: map[string]string{}}
}

func (f *fakeSnapshotRepo) Save(ctx context.Context, sessionKey string, payload string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.payloads[sessionKey] = payload
	return nil
}

func (f *fakeSnapshotRepo) Load(ctx context.Context, sessionKey string) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	p, ok := f.payloads[sessionKey]
	if !ok {
		return "", repository.ErrNotFound
	}
	return p, nil
}

func newTestStore(t *testing.T, snapshots repository.CartSnapshotRepository) *Store {
	t.Helper()
	return NewStore(context.Background(), "sess-1", snapshots, zap.NewNop())
}

func tshirt() model.Product {
	return model.Product{
		ID:    1,
		Name:  "Basic Tee",
		Slug:  "basic-tee",
		Price: 150,
		Images: model.ImageList{
			{URL: "https://cdn.example.com/tee.jpg"},
		},
		Sizes:    model.StringList{"M", "L"},
		Colors:   model.ColorList{{Name: "Black"}},
		InStock:  true,
		IsActive: true,
	}
}

func hoodie() model.Product {
	return model.Product{
		ID:       2,
		Name:     "Oversized Hoodie",
		Slug:     "oversized-hoodie",
		Price:    400,
		Sizes:    model.StringList{"M", "L"},
		InStock:  true,
		IsActive: true,
	}
}

// =====================
// Add
// =====================

func TestStore_Add_MergesSameVariant(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	_, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)
	_, err = s.Add(ctx, tshirt(), 2, "L", "Black")
	require.NoError(t, err)

	//同じ (product, size, color) は明細が増えず数量だけ足される
	merged, err := s.Add(ctx, tshirt(), 3, "M", "Black")
	require.NoError(t, err)

	lines := s.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, int64(4), merged.Quantity)
	assert.Equal(t, int64(6), s.Count())
	assert.Equal(t, int64(900), s.Total())
}

func TestStore_Add_DifferentVariantAppends(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	_, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)
	_, err = s.Add(ctx, hoodie(), 1, "M", "")
	require.NoError(t, err)

	lines := s.Lines()
	require.Len(t, lines, 2)
	//明細IDは全部違う
	assert.NotEqual(t, lines[0].ID, lines[1].ID)
}

func TestStore_Add_RejectsQuantityBelowOne(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())

	_, err := s.Add(context.Background(), tshirt(), 0, "M", "Black")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = s.Add(context.Background(), tshirt(), -5, "M", "Black")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	assert.Empty(t, s.Lines())
}

func TestStore_Add_SnapshotsProductFields(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())

	line, err := s.Add(context.Background(), tshirt(), 1, "M", "Black")
	require.NoError(t, err)

	assert.Equal(t, "Basic Tee", line.Name)
	assert.Equal(t, int64(150), line.Price)
	assert.Equal(t, "https://cdn.example.com/tee.jpg", line.Image)
	assert.Equal(t, "basic-tee", line.Slug)
}

// =====================
// UpdateQuantity / Remove / Clear
// =====================

func TestStore_UpdateQuantity_Replaces(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	line, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)

	s.UpdateQuantity(ctx, line.ID, 5)
	assert.Equal(t, int64(5), s.Count())
}

func TestStore_UpdateQuantity_BelowOneIsNoop(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	line, err := s.Add(ctx, tshirt(), 3, "M", "Black")
	require.NoError(t, err)

	//0でも負数でも消えないし変わらない
	s.UpdateQuantity(ctx, line.ID, 0)
	s.UpdateQuantity(ctx, line.ID, -1)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestStore_Remove_UnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	_, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)

	s.Remove(ctx, "no-such-line")
	assert.Len(t, s.Lines(), 1)
}

func TestStore_Remove_DeletesLine(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	line, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)
	_, err = s.Add(ctx, hoodie(), 1, "L", "")
	require.NoError(t, err)

	s.Remove(ctx, line.ID)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	ctx := context.Background()

	_, err := s.Add(ctx, tshirt(), 2, "M", "Black")
	require.NoError(t, err)

	s.Clear(ctx)

	assert.Empty(t, s.Lines())
	assert.Equal(t, int64(0), s.Total())
	assert.Equal(t, int64(0), s.Count())
}

func TestStore_Lines_NeverNil(t *testing.T) {
	s := newTestStore(t, newFakeSnapshotRepo())
	assert.NotNil(t, s.Lines())
}

// =====================
// Persistence
// =====================

func TestStore_PersistAndRestore(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	ctx := context.Background()

	s := NewStore(ctx, "sess-1", snapshots, zap.NewNop())
	_, err := s.Add(ctx, tshirt(), 2, "M", "Black")
	require.NoError(t, err)
	_, err = s.Add(ctx, hoodie(), 1, "L", "")
	require.NoError(t, err)

	//別プロセス相当。同じキーで作り直すと復元される
	restored := NewStore(ctx, "sess-1", snapshots, zap.NewNop())
	assert.Equal(t, s.Lines(), restored.Lines())
	assert.Equal(t, int64(700), restored.Total())
}

func TestStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	snapshots.payloads["sess-1"] = "{not json"

	s := NewStore(context.Background(), "sess-1", snapshots, zap.NewNop())
	assert.Empty(t, s.Lines())
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	snapshots.loadErr = errors.New("db down")

	s := NewStore(context.Background(), "sess-1", snapshots, zap.NewNop())
	assert.Empty(t, s.Lines())
}

func TestStore_SaveFailureDoesNotFailMutation(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	snapshots.saveErr = errors.New("db down")

	s := NewStore(context.Background(), "sess-1", snapshots, zap.NewNop())
	_, err := s.Add(context.Background(), tshirt(), 1, "M", "Black")

	//保存が死んでいてもカート操作は成立する
	require.NoError(t, err)
	assert.Len(t, s.Lines(), 1)
}

func TestStore_ClearPersistsEmptyArray(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	ctx := context.Background()

	s := NewStore(ctx, "sess-1", snapshots, zap.NewNop())
	_, err := s.Add(ctx, tshirt(), 1, "M", "Black")
	require.NoError(t, err)
	s.Clear(ctx)

	assert.Equal(t, "[]", snapshots.payloads["sess-1"])
}

func TestManager_SameKeySameStore(t *testing.T) {
	m := NewManager(newFakeSnapshotRepo(), zap.NewNop())
	ctx := context.Background()

	a := m.Store(ctx, "sess-a")
	b := m.Store(ctx, "sess-b")

	assert.Same(t, a, m.Store(ctx, "sess-a"))
	assert.NotSame(t, a, b)
}

func TestManager_EvictsIdleStores(t *testing.T) {
	snapshots := newFakeSnapshotRepo()
	m := NewManager(snapshots, zap.NewNop())
	ctx := context.Background()

	s := m.Store(ctx, "sess-a")
	_, err := s.Add(ctx, tshirt(), 2, "M", "Black")
	require.NoError(t, err)

	m.evictIdle(time.Now().Add(time.Hour))

	//落とされても次のアクセスでスナップショットから戻る
	restored := m.Store(ctx, "sess-a")
	assert.NotSame(t, s, restored)
	assert.Equal(t, int64(300), restored.Total())
}

func TestManager_KeepsRecentlyUsedStores(t *testing.T) {
	m := NewManager(newFakeSnapshotRepo(), zap.NewNop())
	ctx := context.Background()

	s := m.Store(ctx, "sess-a")
	m.evictIdle(time.Now())

	assert.Same(t, s, m.Store(ctx, "sess-a"))
}
