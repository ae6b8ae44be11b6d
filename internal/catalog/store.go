package catalog

import (
	"context"
	"time"
)

type Category string

const (
	CategoryBouquets Category = "bouquets"
	CategoryCustom   Category = "custom"
	CategoryPalettes Category = "palettes"
	CategoryCoffee   Category = "coffee"
	CategoryPastries Category = "pastries"
	CategoryClasses  Category = "classes"
)

var Categories = []Category{
	CategoryBouquets,
	CategoryCustom,
	CategoryPalettes,
	CategoryCoffee,
	CategoryPastries,
	CategoryClasses,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Inquiry types the contact form offers. Other values are stored as sent.
const (
	InquiryGeneral = "general"
	InquiryOrder   = "order"
	InquiryEvent   = "event"
)

// CafeInfoID is the fixed id of the café-info singleton.
const CafeInfoID = 1

// Product prices are in tetri (1/100 GEL).
type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	NameKa        string    `json:"nameKa"`
	Description   string    `json:"description"`
	DescriptionKa string    `json:"descriptionKa"`
	Price         int64     `json:"price"`
	ImageURL      string    `json:"imageUrl"`
	Category      Category  `json:"category"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ProductInput struct {
	Name          string   `json:"name" yaml:"name"`
	NameKa        string   `json:"nameKa" yaml:"nameKa"`
	Description   string   `json:"description" yaml:"description"`
	DescriptionKa string   `json:"descriptionKa" yaml:"descriptionKa"`
	Price         int64    `json:"price" yaml:"price"`
	ImageURL      string   `json:"imageUrl" yaml:"imageUrl"`
	Category      Category `json:"category" yaml:"category"`
	Available     *bool    `json:"available,omitempty" yaml:"available,omitempty"`
}

type ContactInquiry struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type InquiryInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Message string  `json:"message"`
	Type    string  `json:"type,omitempty"`
}

// CafeInfo hours are JSON objects mapping a day name to its opening
// interval, kept serialized as the client renders them verbatim.
type CafeInfo struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	NameKa        string `json:"nameKa"`
	Address       string `json:"address"`
	AddressKa     string `json:"addressKa"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Hours         string `json:"hours"`
	HoursKa       string `json:"hoursKa"`
	Description   string `json:"description"`
	DescriptionKa string `json:"descriptionKa"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
}

type CafeInfoInput struct {
	Name          string `json:"name" yaml:"name"`
	NameKa        string `json:"nameKa" yaml:"nameKa"`
	Address       string `json:"address" yaml:"address"`
	AddressKa     string `json:"addressKa" yaml:"addressKa"`
	Phone         string `json:"phone" yaml:"phone"`
	Email         string `json:"email" yaml:"email"`
	Hours         string `json:"hours" yaml:"hours"`
	HoursKa       string `json:"hoursKa" yaml:"hoursKa"`
	Description   string `json:"description" yaml:"description"`
	DescriptionKa string `json:"descriptionKa" yaml:"descriptionKa"`
	Latitude      string `json:"latitude" yaml:"latitude"`
	Longitude     string `json:"longitude" yaml:"longitude"`
}

// CafeInfoPatch carries the fields to overwrite; nil fields are left as is.
type CafeInfoPatch struct {
	Name          *string `json:"name,omitempty"`
	NameKa        *string `json:"nameKa,omitempty"`
	Address       *string `json:"address,omitempty"`
	AddressKa     *string `json:"addressKa,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Hours         *string `json:"hours,omitempty"`
	HoursKa       *string `json:"hoursKa,omitempty"`
	Description   *string `json:"description,omitempty"`
	DescriptionKa *string `json:"descriptionKa,omitempty"`
	Latitude      *string `json:"latitude,omitempty"`
	Longitude     *string `json:"longitude,omitempty"`
}

// Store is the data-access contract shared by the in-memory and Postgres
// backings. Absent records are reported with a false flag, not an error.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, category Category) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, bool, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)

	ListInquiries(ctx context.Context) ([]ContactInquiry, error)
	CreateInquiry(ctx context.Context, in InquiryInput) (ContactInquiry, error)

	GetCafeInfo(ctx context.Context) (CafeInfo, bool, error)
	CreateCafeInfo(ctx context.Context, in CafeInfoInput) (CafeInfo, error)
	UpdateCafeInfo(ctx context.Context, id int, patch CafeInfoPatch) (CafeInfo, bool, error)

	Ping(ctx context.Context) error
}

func (in ProductInput) available() bool {
	return in.Available == nil || *in.Available
}

func (in InquiryInput) inquiryType() string {
	if in.Type == "" {
		return InquiryGeneral
	}
	return in.Type
}

// inquiryLabel bounds the metric label set to the known types.
func inquiryLabel(t string) string {
	switch t {
	case InquiryGeneral, InquiryOrder, InquiryEvent:
		return t
	default:
		return "other"
	}
}

func (in CafeInfoInput) record() CafeInfo {
	return CafeInfo{
		ID:            CafeInfoID,
		Name:          in.Name,
		NameKa:        in.NameKa,
		Address:       in.Address,
		AddressKa:     in.AddressKa,
		Phone:         in.Phone,
		Email:         in.Email,
		Hours:         in.Hours,
		HoursKa:       in.HoursKa,
		Description:   in.Description,
		DescriptionKa: in.DescriptionKa,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
	}
}

func (p CafeInfoPatch) apply(c CafeInfo) CafeInfo {
	for _, f := range p.fields(&c) {
		if f.val != nil {
			*f.dst = *f.val
		}
	}
	return c
}

// Empty reports whether the patch changes nothing.
func (p CafeInfoPatch) Empty() bool {
	return len(p.columns()) == 0
}

// columns maps the set patch fields to their cafe_info column names.
func (p CafeInfoPatch) columns() map[string]any {
	out := map[string]any{}
	for _, f := range p.fields(nil) {
		if f.val != nil {
			out[f.column] = *f.val
		}
	}
	return out
}

type patchField struct {
	column string
	val    *string
	dst    *string
}

func (p CafeInfoPatch) fields(c *CafeInfo) []patchField {
	if c == nil {
		c = &CafeInfo{}
	}
	return []patchField{
		{"name", p.Name, &c.Name},
		{"name_ka", p.NameKa, &c.NameKa},
		{"address", p.Address, &c.Address},
		{"address_ka", p.AddressKa, &c.AddressKa},
		{"phone", p.Phone, &c.Phone},
		{"email", p.Email, &c.Email},
		{"hours", p.Hours, &c.Hours},
		{"hours_ka", p.HoursKa, &c.HoursKa},
		{"description", p.Description, &c.Description},
		{"description_ka", p.DescriptionKa, &c.DescriptionKa},
		{"latitude", p.Latitude, &c.Latitude},
		{"longitude", p.Longitude, &c.Longitude},
	}
}
