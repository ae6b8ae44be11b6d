//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Chococu/internal/catalog"
	"Chococu/pkg/kit"
)

func TestPostgresStore_Products(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	off := false
	inputs := []catalog.ProductInput{
		product("Truffle Bouquet", catalog.CategoryBouquets, nil),
		product("Espresso", catalog.CategoryCoffee, nil),
		product("Rose Bouquet", catalog.CategoryBouquets, &off),
	}
	for i, in := range inputs {
		p, err := st.CreateProduct(ctx, in)
		if err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
		if p.ID != i+1 {
			t.Fatalf("id=%d want=%d", p.ID, i+1)
		}
		if p.Available != (in.Available == nil) {
			t.Fatalf("available=%v for %s", p.Available, in.Name)
		}
	}

	all, err := st.ListProducts(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListProducts: len=%d err=%v", len(all), err)
	}

	bouquets, err := st.ListProductsByCategory(ctx, catalog.CategoryBouquets)
	if err != nil {
		t.Fatalf("ListProductsByCategory: %v", err)
	}
	if len(bouquets) != 2 || bouquets[0].ID != 1 || bouquets[1].ID != 3 {
		t.Fatalf("bouquets=%+v", bouquets)
	}

	empty, err := st.ListProductsByCategory(ctx, catalog.CategoryClasses)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("classes=%v err=%v", empty, err)
	}

	got, ok, err := st.GetProduct(ctx, 2)
	if err != nil || !ok || got.Name != "Espresso" {
		t.Fatalf("GetProduct(2)=%+v ok=%v err=%v", got, ok, err)
	}
	for _, id := range []int{999, 0, -1, 9999999999} {
		if _, ok, err := st.GetProduct(ctx, id); err != nil || ok {
			t.Fatalf("GetProduct(%d) ok=%v err=%v", id, ok, err)
		}
	}
}

func TestPostgresStore_Inquiries(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	if _, err := st.CreateProduct(ctx, product("Latte", catalog.CategoryCoffee, nil)); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	phone := "+995 555 00 00 00"
	first, err := st.CreateInquiry(ctx, catalog.InquiryInput{
		Name: "Nino", Email: "nino@example.com", Message: "Hello",
	})
	if err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}
	if first.ID != 1 || first.Type != catalog.InquiryGeneral || first.Phone != nil {
		t.Fatalf("first=%+v", first)
	}

	second, err := st.CreateInquiry(ctx, catalog.InquiryInput{
		Name: "Giorgi", Email: "giorgi@example.com", Phone: &phone, Message: "Party for 20", Type: catalog.InquiryEvent,
	})
	if err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}
	if second.ID != 2 || second.Phone == nil || *second.Phone != phone {
		t.Fatalf("second=%+v", second)
	}
	if time.Since(second.CreatedAt) > time.Minute {
		t.Fatalf("created_at=%v", second.CreatedAt)
	}

	list, err := st.ListInquiries(ctx)
	if err != nil || len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("ListInquiries=%+v err=%v", list, err)
	}
}

func TestPostgresStore_CafeInfo(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	if _, ok, err := st.GetCafeInfo(ctx); err != nil || ok {
		t.Fatalf("GetCafeInfo on empty table ok=%v err=%v", ok, err)
	}

	in := catalog.DefaultFixtures().Cafe
	created, err := st.CreateCafeInfo(ctx, *in)
	if err != nil {
		t.Fatalf("CreateCafeInfo: %v", err)
	}
	if created.ID != catalog.CafeInfoID {
		t.Fatalf("id=%d", created.ID)
	}

	replacement := *in
	replacement.Phone = "+995 322 00 00 00"
	replaced, err := st.CreateCafeInfo(ctx, replacement)
	if err != nil {
		t.Fatalf("CreateCafeInfo replace: %v", err)
	}
	if replaced.Phone != replacement.Phone {
		t.Fatalf("phone=%q", replaced.Phone)
	}

	name := "Chococu Vake"
	updated, ok, err := st.UpdateCafeInfo(ctx, catalog.CafeInfoID, catalog.CafeInfoPatch{Name: &name})
	if err != nil || !ok {
		t.Fatalf("UpdateCafeInfo ok=%v err=%v", ok, err)
	}
	if updated.Name != name || updated.Phone != replacement.Phone {
		t.Fatalf("updated=%+v", updated)
	}

	if _, ok, err := st.UpdateCafeInfo(ctx, 999, catalog.CafeInfoPatch{Name: &name}); err != nil || ok {
		t.Fatalf("UpdateCafeInfo(999) ok=%v err=%v", ok, err)
	}
	if _, ok, err := st.UpdateCafeInfo(ctx, catalog.CafeInfoID, catalog.CafeInfoPatch{}); err != nil || !ok {
		t.Fatalf("empty patch ok=%v err=%v", ok, err)
	}

	got, _, err := st.GetCafeInfo(ctx)
	if err != nil || !reflect.DeepEqual(got, updated) {
		t.Fatalf("GetCafeInfo=%+v err=%v", got, err)
	}
}

func TestPostgresStore_SeedSurvivesRestart(t *testing.T) {
	st, _ := openStore(t)
	ctx := context.Background()

	if err := catalog.Seed(ctx, st, catalog.DefaultFixtures()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := catalog.Seed(ctx, st, catalog.DefaultFixtures()); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	restarted := reopen(t)
	products, err := restarted.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if want := len(catalog.DefaultFixtures().Products); len(products) != want {
		t.Fatalf("products=%d want=%d", len(products), want)
	}
	if _, ok, err := restarted.GetCafeInfo(ctx); err != nil || !ok {
		t.Fatalf("GetCafeInfo ok=%v err=%v", ok, err)
	}
}

func TestSystem_E2E_WithDB(t *testing.T) {
	st, _ := openStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := catalog.Seed(ctx, st, catalog.DefaultFixtures()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	s := &catalog.Server{
		Store:          st,
		Log:            zap.NewNop(),
		ContactLimiter: kit.NewIPRateLimiter(60, 10),
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{
		Log:      zap.NewNop(),
		Service:  "cafe",
		Registry: prometheus.NewRegistry(),
	}))
	defer ts.Close()

	waitReady(t, ctx, ts.URL+"/readyz")

	var products []catalog.Product
	doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, &products, 200)
	if len(products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	var one catalog.Product
	doJSON(t, http.MethodGet, ts.URL+"/api/products/1", nil, &one, 200)
	if one.ID != 1 || one.Name != products[0].Name {
		t.Fatalf("product 1=%+v", one)
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/products/9999", nil, nil, 404)
	doJSON(t, http.MethodGet, ts.URL+"/api/products/9999999999", nil, nil, 404)

	var cafe catalog.CafeInfo
	doJSON(t, http.MethodGet, ts.URL+"/api/cafe-info", nil, &cafe, 200)
	if _, err := catalog.ParseHours(cafe.Hours); err != nil {
		t.Fatalf("hours not parseable: %v", err)
	}

	var created catalog.ContactInquiry
	doJSON(t, http.MethodPost, ts.URL+"/api/contact", map[string]any{
		"name":    "Ana",
		"email":   "ana@example.com",
		"message": "Do you host birthday classes?",
		"type":    "event",
	}, &created, 201)
	if created.ID == 0 || created.Type != catalog.InquiryEvent {
		t.Fatalf("created=%+v", created)
	}

	stored, err := st.ListInquiries(ctx)
	if err != nil || len(stored) != 1 || stored[0].ID != created.ID {
		t.Fatalf("stored=%+v err=%v", stored, err)
	}
}

func product(name string, c catalog.Category, available *bool) catalog.ProductInput {
	return catalog.ProductInput{
		Name:          name,
		NameKa:        name,
		Description:   name,
		DescriptionKa: name,
		Price:         2500,
		ImageURL:      "https://images.example.com/" + string(c) + ".jpg",
		Category:      c,
		Available:     available,
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}
