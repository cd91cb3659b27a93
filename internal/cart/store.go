package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"mvee-store/internal/domain/model"
	"mvee-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

// Store は1セッション分のカート。
// メモリ上のlinesが正で、スナップショットは各操作の後追いミラー。
// 各操作はlinesをまるごと差し替えるので途中状態は見えない
type Store struct {
	mu        sync.Mutex
	key       string
	lines     []Line
	snapshots repository.CartSnapshotRepository
	log       *zap.Logger
	newID     func() string
}

// NewStore は保存済みスナップショットを読み込んでStoreを作る。
// スナップショットが無い・壊れている場合は空のカートで開始する（エラーにしない）
func NewStore(ctx context.Context, key string, snapshots repository.CartSnapshotRepository, log *zap.Logger) *Store {
	s := &Store{
		key:       key,
		snapshots: snapshots,
		log:       log,
		newID:     uuid.NewString,
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Line {
	payload, err := s.snapshots.Load(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn("cart snapshot load failed, starting empty",
			zap.String("session", s.key), zap.Error(err))
		return nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		//壊れたスナップショットは捨てて空で再開。ユーザーにエラーは見せない
		s.log.Warn("cart snapshot corrupt, starting empty",
			zap.String("session", s.key), zap.Error(err))
		return nil
	}
	return lines
}

// Add は商品をカートへ入れる。
// (productId, size, color) が同じ明細があれば数量を加算、無ければ新しい明細を足す。
// qty < 1 は ErrInvalidQuantity（切り上げはしない）
func (s *Store) Add(ctx context.Context, p model.Product, qty int64, size, color string) (Line, error) {
	if qty < 1 {
		return Line{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, len(s.lines))
	copy(next, s.lines)

	for i := range next {
		if next[i].sameVariant(p.ID, size, color) {
			next[i].Quantity += qty
			s.lines = next
			s.persist(ctx)
			return next[i], nil
		}
	}

	line := Line{
		ID:        s.newID(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.FirstImageURL(),
		Slug:      p.Slug,
		Size:      size,
		Color:     color,
		Quantity:  qty,
	}
	s.lines = append(next, line)
	s.persist(ctx)
	return line, nil
}

// Remove は明細を削除する。IDが無ければ何もしない（エラーにしない）
func (s *Store) Remove(ctx context.Context, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, 0, len(s.lines))
	removed := false
	for _, l := range s.lines {
		if l.ID == lineID {
			removed = true
			continue
		}
		next = append(next, l)
	}
	if !removed {
		return
	}
	s.lines = next
	s.persist(ctx)
}

// UpdateQuantity は数量を置き換える。
// qty < 1 は何もしない（1未満にはできないし、0で削除もしない）
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, qty int64) {
	if qty < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, len(s.lines))
	copy(next, s.lines)

	for i := range next {
		if next[i].ID == lineID {
			next[i].Quantity = qty
			s.lines = next
			s.persist(ctx)
			return
		}
	}
}

// Clear はカートを空にする
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

// Lines は明細のコピーを返す（空でもnilにしない）
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total は毎回明細から計算する（別カウンタは持たない）
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, l := range s.lines {
		total += l.Price * l.Quantity
	}
	return total
}

// Count は数量の合計（バッジ表示用。明細数とは別物）
func (s *Store) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// persist は現在の明細をまるごと上書き保存する。
// 保存失敗でも操作自体は成立させる（ミラーであって正ではない）。
// 呼び出し側でmuを握っていること
func (s *Store) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		s.log.Warn("cart snapshot marshal failed", zap.String("session", s.key), zap.Error(err))
		return
	}
	if err := s.snapshots.Save(ctx, s.key, string(payload)); err != nil {
		s.log.Warn("cart snapshot save failed", zap.String("session", s.key), zap.Error(err))
	}
}
