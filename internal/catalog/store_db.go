package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

//go:embed schema.sql
var schemaSQL string

var (
	productColumns = []string{
		"id", "name", "name_ka", "description", "description_ka",
		"price", "image_url", "category", "available", "created_at",
	}
	inquiryColumns = []string{"id", "name", "email", "phone", "message", "type", "created_at"}
	cafeColumns    = []string{
		"id", "name", "name_ka", "address", "address_ka", "phone", "email",
		"hours", "hours_ka", "description", "description_ka", "latitude", "longitude",
	}
)

type PostgresStore struct {
	db  *sql.DB
	psq sq.StatementBuilderType
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db),
	}
}

// Migrate creates the catalog tables when they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, 10*time.Second, func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	return s.selectProducts(ctx, nil)
}

func (s *PostgresStore) ListProductsByCategory(ctx context.Context, category Category) ([]Product, error) {
	return s.selectProducts(ctx, sq.Eq{"category": string(category)})
}

func (s *PostgresStore) selectProducts(ctx context.Context, where sq.Sqlizer) ([]Product, error) {
	q := s.psq.Select(productColumns...).From("products").OrderBy("id ASC")
	if where != nil {
		q = q.Where(where)
	}

	out := make([]Product, 0, 16)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := q.QueryContext(ctx)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int) (Product, bool, error) {
	// products.id is a SERIAL; anything outside int4 cannot exist.
	if id < 1 || id > math.MaxInt32 {
		return Product{}, false, nil
	}

	var p Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		p, err = scanProduct(s.psq.Select(productColumns...).
			From("products").
			Where(sq.Eq{"id": id}).
			QueryRowContext(ctx))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, true, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		p, err = scanProduct(s.psq.Insert("products").
			SetMap(map[string]any{
				"name":           in.Name,
				"name_ka":        in.NameKa,
				"description":    in.Description,
				"description_ka": in.DescriptionKa,
				"price":          in.Price,
				"image_url":      in.ImageURL,
				"category":       string(in.Category),
				"available":      in.available(),
			}).
			Suffix("RETURNING " + joinColumns(productColumns)).
			QueryRowContext(ctx))
		return err
	})
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListInquiries(ctx context.Context) ([]ContactInquiry, error) {
	out := make([]ContactInquiry, 0, 16)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.psq.Select(inquiryColumns...).
			From("contact_inquiries").
			OrderBy("id ASC").
			QueryContext(ctx)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			q, err := scanInquiry(rows)
			if err != nil {
				return err
			}
			out = append(out, q)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateInquiry(ctx context.Context, in InquiryInput) (ContactInquiry, error) {
	var q ContactInquiry
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		q, err = scanInquiry(s.psq.Insert("contact_inquiries").
			SetMap(map[string]any{
				"name":    in.Name,
				"email":   in.Email,
				"phone":   in.Phone,
				"message": in.Message,
				"type":    in.inquiryType(),
			}).
			Suffix("RETURNING " + joinColumns(inquiryColumns)).
			QueryRowContext(ctx))
		return err
	})
	if err != nil {
		return ContactInquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	return q, nil
}

func (s *PostgresStore) GetCafeInfo(ctx context.Context) (CafeInfo, bool, error) {
	var c CafeInfo
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		c, err = scanCafe(s.psq.Select(cafeColumns...).
			From("cafe_info").
			Where(sq.Eq{"id": CafeInfoID}).
			QueryRowContext(ctx))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return CafeInfo{}, false, nil
	}
	if err != nil {
		return CafeInfo{}, false, fmt.Errorf("get cafe info: %w", err)
	}
	return c, true, nil
}

func (s *PostgresStore) CreateCafeInfo(ctx context.Context, in CafeInfoInput) (CafeInfo, error) {
	rec := in.record()
	values := map[string]any{
		"id":             rec.ID,
		"name":           rec.Name,
		"name_ka":        rec.NameKa,
		"address":        rec.Address,
		"address_ka":     rec.AddressKa,
		"phone":          rec.Phone,
		"email":          rec.Email,
		"hours":          rec.Hours,
		"hours_ka":       rec.HoursKa,
		"description":    rec.Description,
		"description_ka": rec.DescriptionKa,
		"latitude":       rec.Latitude,
		"longitude":      rec.Longitude,
	}

	var c CafeInfo
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		c, err = scanCafe(s.psq.Insert("cafe_info").
			SetMap(values).
			Suffix("ON CONFLICT (id) DO UPDATE SET " + excludedAssignments(cafeColumns[1:]) +
				" RETURNING " + joinColumns(cafeColumns)).
			QueryRowContext(ctx))
		return err
	})
	if err != nil {
		return CafeInfo{}, fmt.Errorf("create cafe info: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateCafeInfo(ctx context.Context, id int, patch CafeInfoPatch) (CafeInfo, bool, error) {
	if patch.Empty() {
		c, ok, err := s.GetCafeInfo(ctx)
		if err != nil || !ok || c.ID != id {
			return CafeInfo{}, false, err
		}
		return c, true, nil
	}

	var c CafeInfo
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		c, err = scanCafe(s.psq.Update("cafe_info").
			SetMap(patch.columns()).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + joinColumns(cafeColumns)).
			QueryRowContext(ctx))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return CafeInfo{}, false, nil
	}
	if err != nil {
		return CafeInfo{}, false, fmt.Errorf("update cafe info: %w", err)
	}
	return c, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.NameKa, &p.Description, &p.DescriptionKa,
		&p.Price, &p.ImageURL, &p.Category, &p.Available, &p.CreatedAt)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, err
}

func scanInquiry(row scanner) (ContactInquiry, error) {
	var q ContactInquiry
	err := row.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.Type, &q.CreatedAt)
	q.CreatedAt = q.CreatedAt.UTC()
	return q, err
}

func scanCafe(row scanner) (CafeInfo, error) {
	var c CafeInfo
	err := row.Scan(&c.ID, &c.Name, &c.NameKa, &c.Address, &c.AddressKa, &c.Phone, &c.Email,
		&c.Hours, &c.HoursKa, &c.Description, &c.DescriptionKa, &c.Latitude, &c.Longitude)
	return c, err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func excludedAssignments(cols []string) string {
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = c + " = EXCLUDED." + c
	}
	return strings.Join(set, ", ")
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
