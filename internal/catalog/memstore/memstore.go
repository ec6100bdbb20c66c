// Package memstore 메모리 기반 catalog.Store 구현체를 제공합니다.
//
// 데이터베이스 DSN이 설정되지 않은 dry-run 실행과 테스트에서 사용합니다.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/google/uuid"
)

// Store 메모리 기반 카탈로그 저장소입니다.
//
// WithinTx는 상태의 사본에서 fn을 실행한 뒤 성공했을 때만 사본으로 교체합니다.
// fn 실행 중에는 저장소 잠금을 유지하므로 fn 안에서는 전달받은 tx만 사용해야 합니다.
type Store struct {
	mu     sync.Mutex
	state  *state
	closed bool

	now func() time.Time
}

var _ catalog.Store = (*Store)(nil)

// New 비어 있는 Store를 생성합니다.
func New() *Store {
	return &Store{
		state: newState(),
		now:   time.Now,
	}
}

type state struct {
	products map[string]*catalog.Product
	images   map[string][]catalog.Image
	variants map[string][]catalog.Variant
}

func newState() *state {
	return &state{
		products: make(map[string]*catalog.Product),
		images:   make(map[string][]catalog.Image),
		variants: make(map[string][]catalog.Variant),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = p.Clone()
	}
	for id, images := range s.images {
		c.images[id] = slices.Clone(images)
	}
	for id, variants := range s.variants {
		c.variants[id] = slices.Clone(variants)
	}
	return c
}

// tx 하나의 state 위에서 catalog.Tx를 구현합니다. 잠금은 호출자가 관리합니다.
type tx struct {
	st  *state
	now func() time.Time
}

var _ catalog.Tx = (*tx)(nil)

func (s *Store) view() (*tx, error) {
	if s.closed {
		return nil, apperrors.New(apperrors.PersistenceFailure, "카탈로그 저장소가 이미 닫혔습니다")
	}
	return &tx{st: s.state, now: s.now}, nil
}

func (s *Store) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.view()
	if err != nil {
		return nil, err
	}
	return t.FindByExternalID(ctx, externalID)
}

func (s *Store) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.view()
	if err != nil {
		return nil, err
	}
	return t.FindByName(ctx, name)
}

func (s *Store) Create(ctx context.Context, p *catalog.Product) error {
	return s.WithinTx(ctx, func(t catalog.Tx) error { return t.Create(ctx, p) })
}

func (s *Store) Update(ctx context.Context, p *catalog.Product) error {
	return s.WithinTx(ctx, func(t catalog.Tx) error { return t.Update(ctx, p) })
}

func (s *Store) DeleteChildren(ctx context.Context, productID string) error {
	return s.WithinTx(ctx, func(t catalog.Tx) error { return t.DeleteChildren(ctx, productID) })
}

func (s *Store) InsertChildren(ctx context.Context, productID string, images []catalog.Image, variants []catalog.Variant) error {
	return s.WithinTx(ctx, func(t catalog.Tx) error { return t.InsertChildren(ctx, productID, images, variants) })
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx catalog.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return catalog.NewErrPersistence(err, "begin", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.PersistenceFailure, "카탈로그 저장소가 이미 닫혔습니다")
	}

	working := s.state.clone()
	if err := fn(&tx{st: working, now: s.now}); err != nil {
		return err
	}
	s.state = working

	return nil
}

func (s *Store) Get(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}

	c := p.Clone()
	c.Images = slices.Clone(s.state.images[id])
	c.Variants = slices.Clone(s.state.variants[id])

	return c, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.state.products), nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (t *tx) FindByExternalID(_ context.Context, externalID string) (*catalog.Product, error) {
	if externalID == "" {
		return nil, catalog.ErrProductNotFound
	}

	for _, p := range t.st.products {
		if p.ExternalID == externalID {
			return p.Clone(), nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

// FindByName 이름이 정확히 일치하는 상품 중 가장 먼저 생성된 상품을 반환합니다.
func (t *tx) FindByName(_ context.Context, name string) (*catalog.Product, error) {
	var found *catalog.Product
	for _, p := range t.st.products {
		if p.Name != name {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) || (p.CreatedAt.Equal(found.CreatedAt) && p.ID < found.ID) {
			found = p
		}
	}

	if found == nil {
		return nil, catalog.ErrProductNotFound
	}
	return found.Clone(), nil
}

func (t *tx) Create(_ context.Context, p *catalog.Product) error {
	if p.ExternalID != "" {
		for _, existing := range t.st.products {
			if existing.ExternalID == p.ExternalID {
				return catalog.NewErrPersistence(catalog.ErrDuplicateExternalID, "create", existing.ID)
			}
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := t.st.products[p.ID]; exists {
		return catalog.NewErrPersistence(apperrors.New(apperrors.Conflict, "같은 ID의 상품이 이미 존재합니다"), "create", p.ID)
	}

	now := t.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	stored := p.Clone()
	stored.Images, stored.Variants = nil, nil
	t.st.products[p.ID] = stored

	return nil
}

func (t *tx) Update(_ context.Context, p *catalog.Product) error {
	existing, ok := t.st.products[p.ID]
	if !ok {
		return catalog.NewErrPersistence(catalog.ErrProductNotFound, "update", p.ID)
	}

	if p.ExternalID != "" && p.ExternalID != existing.ExternalID {
		for id, other := range t.st.products {
			if id != p.ID && other.ExternalID == p.ExternalID {
				return catalog.NewErrPersistence(catalog.ErrDuplicateExternalID, "update", p.ID)
			}
		}
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = t.now()

	stored := p.Clone()
	stored.Images, stored.Variants = nil, nil
	t.st.products[p.ID] = stored

	return nil
}

func (t *tx) DeleteChildren(_ context.Context, productID string) error {
	delete(t.st.images, productID)
	delete(t.st.variants, productID)
	return nil
}

func (t *tx) InsertChildren(_ context.Context, productID string, images []catalog.Image, variants []catalog.Variant) error {
	if _, ok := t.st.products[productID]; !ok {
		return catalog.NewErrPersistence(catalog.ErrProductNotFound, "insert_children", productID)
	}

	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.NewString()
		}
		images[i].ProductID = productID
		t.st.images[productID] = append(t.st.images[productID], images[i])
	}
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.NewString()
		}
		variants[i].ProductID = productID
		t.st.variants[productID] = append(t.st.variants[productID], variants[i])
	}

	return nil
}
