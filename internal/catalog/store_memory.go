package catalog

import (
	"context"
	"sync"
	"time"
)

// MemStore keeps every record in process memory. Products live in a slice in
// insertion order with an id -> index lookup; writes are serialized so id
// assignment and the café-info replacement stay atomic.
type MemStore struct {
	mu sync.RWMutex

	products      []Product
	productIndex  map[int]int
	nextProductID int

	inquiries     []ContactInquiry
	nextInquiryID int

	cafe *CafeInfo

	now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		productIndex:  map[int]int{},
		nextProductID: 1,
		nextInquiryID: 1,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NewStore returns a MemStore seeded with the default fixtures.
func NewStore() *MemStore {
	s := NewMemStore()
	if err := Seed(context.Background(), s, DefaultFixtures()); err != nil {
		panic("catalog: seed memory store: " + err.Error())
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) ListProductsByCategory(ctx context.Context, category Category) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id int) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.productIndex[id]
	if !ok {
		return Product{}, false, nil
	}
	return s.products[i], true, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:            s.nextProductID,
		Name:          in.Name,
		NameKa:        in.NameKa,
		Description:   in.Description,
		DescriptionKa: in.DescriptionKa,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		Category:      in.Category,
		Available:     in.available(),
		CreatedAt:     s.now(),
	}
	s.nextProductID++

	s.productIndex[p.ID] = len(s.products)
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) ListInquiries(ctx context.Context) ([]ContactInquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ContactInquiry, len(s.inquiries))
	for i, q := range s.inquiries {
		out[i] = q.clone()
	}
	return out, nil
}

func (s *MemStore) CreateInquiry(ctx context.Context, in InquiryInput) (ContactInquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := ContactInquiry{
		ID:        s.nextInquiryID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     clonePtr(in.Phone),
		Message:   in.Message,
		Type:      in.inquiryType(),
		CreatedAt: s.now(),
	}
	s.nextInquiryID++

	s.inquiries = append(s.inquiries, q)
	return q.clone(), nil
}

func (s *MemStore) GetCafeInfo(ctx context.Context) (CafeInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cafe == nil {
		return CafeInfo{}, false, nil
	}
	return *s.cafe, true, nil
}

func (s *MemStore) CreateCafeInfo(ctx context.Context, in CafeInfoInput) (CafeInfo, error) {
	c := in.record()

	s.mu.Lock()
	s.cafe = &c
	s.mu.Unlock()

	return c, nil
}

func (s *MemStore) UpdateCafeInfo(ctx context.Context, id int, patch CafeInfoPatch) (CafeInfo, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cafe == nil || s.cafe.ID != id {
		return CafeInfo{}, false, nil
	}
	updated := patch.apply(*s.cafe)
	s.cafe = &updated
	return updated, true, nil
}

func (q ContactInquiry) clone() ContactInquiry {
	q.Phone = clonePtr(q.Phone)
	return q
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
