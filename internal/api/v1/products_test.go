package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epasal/epasal-backend/internal/model"
	"github.com/epasal/epasal-backend/internal/service"
)

func TestToProductCardDefaults(t *testing.T) {
	card := toProductCard(model.Laptop{
		ID:          42,
		DisplayName: "Acer Aspire 5",
		ShowPrice:   decimal.NewFromFloat(92000),
	})

	assert.Equal(t, "42", card.ID)
	assert.Nil(t, card.Image)
	assert.Equal(t, "Acer Aspire 5", card.DisplayName)
	assert.Equal(t, "92000.00", card.ShowPrice)
	assert.Equal(t, "Performance Laptop", card.Tag)
}

func TestToProductCardKeepsTagAndImage(t *testing.T) {
	tag := "Gaming Beast"
	image := "/uploads/laptops/face/abc.jpg"

	card := toProductCard(model.Laptop{
		ID:                    7,
		DisplayName:           "MSI Katana 15",
		ShowPrice:             decimal.RequireFromString("174999.50"),
		ProductAuthentication: &tag,
		FaceImageURL:          &image,
	})

	assert.Equal(t, "Gaming Beast", card.Tag)
	require.NotNil(t, card.Image)
	assert.Equal(t, image, *card.Image)
	assert.Equal(t, "174999.50", card.ShowPrice)
}

func TestToProductCardsEmptyIsNotNil(t *testing.T) {
	cards := toProductCards(nil)

	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

type stubCatalog struct {
	catalog     []model.Laptop
	sampleCalls int
}

func (s *stubCatalog) FetchByIDs(_ context.Context, _ []int) ([]model.Laptop, error) {
	return nil, nil
}

func (s *stubCatalog) FetchByFilter(_ context.Context, _ service.FilterCriteria) ([]model.Laptop, error) {
	return s.catalog, nil
}

func (s *stubCatalog) FetchRandomSample(_ context.Context, _ service.FilterCriteria, n int) ([]model.Laptop, error) {
	s.sampleCalls++
	if len(s.catalog) > n {
		return s.catalog[:n], nil
	}
	return s.catalog, nil
}

func newProductsRouter(stub *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	a := &API{engine: service.NewEngine(stub, zerolog.Nop()), log: zerolog.Nop()}
	r := gin.New()
	r.GET("/api/productshow/getproduct", a.GetFilteredProducts)
	return r
}

func seedStubCatalog(n int) *stubCatalog {
	stub := &stubCatalog{}
	for i := 0; i < n; i++ {
		stub.catalog = append(stub.catalog, model.Laptop{
			ID:          i + 1,
			DisplayName: fmt.Sprintf("laptop-%d", i+1),
			ShowPrice:   decimal.NewFromInt(100000),
		})
	}
	return stub
}

func TestGetFilteredProductsEmptyViewedFallsBackToRandom(t *testing.T) {
	stub := seedStubCatalog(30)
	r := newProductsRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/productshow/getproduct?viewed=", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.sampleCalls)

	var cards []ProductCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	assert.LessOrEqual(t, len(cards), service.RecommendLimit)
}

func TestGetFilteredProductsUnresolvableViewedFallsBackToRandom(t *testing.T) {
	stub := seedStubCatalog(30)
	r := newProductsRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/productshow/getproduct?viewed=a,b", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.sampleCalls)
}

func TestGetFilteredProductsAbsentViewedServesListing(t *testing.T) {
	stub := seedStubCatalog(30)
	r := newProductsRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/productshow/getproduct", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, stub.sampleCalls)

	var cards []ProductCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	assert.Len(t, cards, 30)
}

func TestRsPriceGrouping(t *testing.T) {
	assert.Equal(t, "Rs92,000", rsPrice(decimal.NewFromInt(92000)))
	assert.Equal(t, "Rs1,234,567", rsPrice(decimal.NewFromInt(1234567)))
	assert.Equal(t, "Rs999", rsPrice(decimal.NewFromInt(999)))
	// Paisa are dropped, not rounded.
	assert.Equal(t, "Rs92,000", rsPrice(decimal.RequireFromString("92000.99")))
}
