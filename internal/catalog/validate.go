package catalog

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLen    = 200
	maxMessageLen = 5000
	maxPhoneLen   = 32
	maxTypeLen    = 32
)

type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError lists every rejected field of an input.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type validator struct {
	errs ValidationError
}

func (v *validator) add(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Description: fmt.Sprintf(format, args...)})
}

func (v *validator) required(field, val string, maxLen int) {
	switch n := runeLen(val); {
	case n == 0:
		v.add(field, "%s is required", field)
	case maxLen > 0 && n > maxLen:
		v.add(field, "%s must be at most %d characters", field, maxLen)
	}
}

func (v *validator) email(field, val string) {
	if strings.TrimSpace(val) == "" {
		v.add(field, "%s is required", field)
		return
	}
	addr, err := mail.ParseAddress(val)
	if err != nil || addr.Address != strings.TrimSpace(val) {
		v.add(field, "%s must be a valid email address", field)
	}
}

func (v *validator) hours(field, val string) {
	if strings.TrimSpace(val) == "" {
		v.add(field, "%s is required", field)
		return
	}
	if _, err := ParseHours(val); err != nil {
		v.add(field, "%s must be a JSON object of day to interval", field)
	}
}

func (v *validator) coordinate(field, val string, limit float64) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		v.add(field, "%s must be a decimal number", field)
		return
	}
	if f < -limit || f > limit {
		v.add(field, "%s must be within ±%g", field, limit)
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (in ProductInput) Validate() error {
	var v validator
	v.required("name", in.Name, maxNameLen)
	v.required("nameKa", in.NameKa, maxNameLen)
	v.required("description", in.Description, 0)
	v.required("descriptionKa", in.DescriptionKa, 0)
	if in.Price < 0 {
		v.add("price", "price cannot be negative")
	}
	if u, err := url.Parse(in.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
		v.add("imageUrl", "imageUrl must be an absolute URL")
	}
	if !in.Category.Valid() {
		v.add("category", "category must be one of %s", categoryList())
	}
	return v.err()
}

func (in InquiryInput) Validate() error {
	var v validator
	v.required("name", in.Name, maxNameLen)
	v.email("email", in.Email)
	if in.Phone != nil && runeLen(*in.Phone) > maxPhoneLen {
		v.add("phone", "phone must be at most %d characters", maxPhoneLen)
	}
	v.required("message", in.Message, maxMessageLen)
	if runeLen(in.Type) > maxTypeLen {
		v.add("type", "type must be at most %d characters", maxTypeLen)
	}
	return v.err()
}

func (in CafeInfoInput) Validate() error {
	var v validator
	v.required("name", in.Name, maxNameLen)
	v.required("nameKa", in.NameKa, maxNameLen)
	v.required("address", in.Address, 0)
	v.required("addressKa", in.AddressKa, 0)
	v.required("phone", in.Phone, maxPhoneLen)
	v.email("email", in.Email)
	v.hours("hours", in.Hours)
	v.hours("hoursKa", in.HoursKa)
	v.required("description", in.Description, 0)
	v.required("descriptionKa", in.DescriptionKa, 0)
	v.coordinate("latitude", in.Latitude, 90)
	v.coordinate("longitude", in.Longitude, 180)
	return v.err()
}

// Validate checks only the fields present in the patch.
func (p CafeInfoPatch) Validate() error {
	var v validator
	for _, f := range []struct {
		field string
		val   *string
	}{
		{"name", p.Name},
		{"nameKa", p.NameKa},
		{"address", p.Address},
		{"addressKa", p.AddressKa},
		{"description", p.Description},
		{"descriptionKa", p.DescriptionKa},
	} {
		if f.val != nil {
			v.required(f.field, *f.val, 0)
		}
	}
	if p.Phone != nil {
		v.required("phone", *p.Phone, maxPhoneLen)
	}
	if p.Email != nil {
		v.email("email", *p.Email)
	}
	if p.Hours != nil {
		v.hours("hours", *p.Hours)
	}
	if p.HoursKa != nil {
		v.hours("hoursKa", *p.HoursKa)
	}
	if p.Latitude != nil {
		v.coordinate("latitude", *p.Latitude, 90)
	}
	if p.Longitude != nil {
		v.coordinate("longitude", *p.Longitude, 180)
	}
	return v.err()
}

// ParseHours decodes a serialized opening-hours object.
func ParseHours(s string) (map[string]string, error) {
	var out map[string]string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("hours: not an object")
	}
	return out, nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
