package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/epasal/epasal-backend/internal/model"
	"github.com/epasal/epasal-backend/internal/service"
)

// defaultTag labels catalog entries without a product-authentication tag.
const defaultTag = "Performance Laptop"

var rsPrinter = message.NewPrinter(language.English)

// ProductCard is the storefront listing projection.
type ProductCard struct {
	ID          string  `json:"id"`
	Image       *string `json:"image"`
	DisplayName string  `json:"display_name"`
	ShowPrice   string  `json:"show_price"`
	Tag         string  `json:"tag"`
}

func toProductCard(l model.Laptop) ProductCard {
	tag := defaultTag
	if l.ProductAuthentication != nil {
		tag = *l.ProductAuthentication
	}
	return ProductCard{
		ID:          strconv.Itoa(l.ID),
		Image:       l.FaceImageURL,
		DisplayName: l.DisplayName,
		ShowPrice:   l.ShowPrice.StringFixed(2),
		Tag:         tag,
	}
}

func toProductCards(laptops []model.Laptop) []ProductCard {
	cards := make([]ProductCard, 0, len(laptops))
	for _, l := range laptops {
		cards = append(cards, toProductCard(l))
	}
	return cards
}

// GetFilteredProducts serves the listing, random-sample and recommendation
// paths of /api/productshow/getproduct.
func (a *API) GetFilteredProducts(c *gin.Context) {
	ctx := c.Request.Context()
	fc := service.ParseFilterCriteria(c.Query("brands"), c.Query("min_price"), c.Query("max_price"))

	var (
		laptops []model.Laptop
		err     error
	)

	random, _ := strconv.ParseBool(c.Query("random"))
	// An empty viewed= still selects the recommendation path; the engine
	// degrades an empty or unresolvable viewed set to the random sample.
	viewed, viewedSet := c.GetQuery("viewed")

	switch {
	case random:
		laptops, err = a.engine.RandomSample(ctx, fc)
	case viewedSet:
		laptops, err = a.engine.Recommend(ctx, viewed, fc)
	default:
		laptops, err = a.engine.Listing(ctx, fc)
	}

	if err != nil {
		a.log.Error().Err(err).Str("viewed", viewed).Msg("product fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, toProductCards(laptops))
}

// ProductDetails is the full spec sheet for one catalog entry.
type ProductDetails struct {
	BrandName             string   `json:"brand_name"`
	DisplayName           string   `json:"display_name"`
	ModelName             string   `json:"model_name"`
	ModelYear             *int     `json:"model_year"`
	ProductType           *string  `json:"product_type"`
	ProductAuthentication *string  `json:"product_authentication"`
	SuitableFor           *string  `json:"suitable_for"`
	Color                 *string  `json:"color"`
	RAM                   *int     `json:"ram"`
	RAMType               *string  `json:"ram_type"`
	Processor             *string  `json:"processor"`
	ProcessorSeries       *string  `json:"processor_series"`
	ProcessorGeneration   *string  `json:"processor_generation"`
	Storage               *int     `json:"storage"`
	StorageType           *string  `json:"storage_type"`
	Warranty              *string  `json:"warranty"`
	Graphic               *string  `json:"graphic"`
	GraphicRAM            *int     `json:"graphic_ram"`
	Display               *string  `json:"display"`
	DisplayType           *string  `json:"display_type"`
	Battery               *string  `json:"battery"`
	PowerSupply           *string  `json:"power_supply"`
	Touchscreen           *bool    `json:"touchscreen"`
	CostPrice             float64  `json:"cost_price"`
	Quantity              int      `json:"quantity"`
	FaceImage             *string  `json:"face_image"`
	SideImages            []string `json:"side_images"`
}

func (a *API) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()

	var (
		d         ProductDetails
		costPrice decimal.Decimal
	)
	err = a.pool.QueryRow(ctx, `
        SELECT brand_name, display_name, model_name, model_year, product_type, product_authentication,
               suitable_for, color, processor_generation, processor, processor_series, ram, ram_type,
               storage, storage_type, warranty, graphic, graphic_ram, display, display_type, battery,
               power_supply, touchscreen, cost_price, quantity, face_image_url
        FROM laptop_details
        WHERE id = $1`, id,
	).Scan(
		&d.BrandName, &d.DisplayName, &d.ModelName, &d.ModelYear, &d.ProductType, &d.ProductAuthentication,
		&d.SuitableFor, &d.Color, &d.ProcessorGeneration, &d.Processor, &d.ProcessorSeries, &d.RAM, &d.RAMType,
		&d.Storage, &d.StorageType, &d.Warranty, &d.Graphic, &d.GraphicRAM, &d.Display, &d.DisplayType, &d.Battery,
		&d.PowerSupply, &d.Touchscreen, &costPrice, &d.Quantity, &d.FaceImage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		a.log.Error().Err(err).Int("id", id).Msg("product detail query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	d.CostPrice = costPrice.InexactFloat64()

	rows, err := a.pool.Query(ctx,
		"SELECT image_url FROM laptop_side_images WHERE laptop_id = $1 ORDER BY id ASC", id)
	if err != nil {
		a.log.Error().Err(err).Int("id", id).Msg("side image query failed")
	} else {
		defer rows.Close()
		for rows.Next() {
			var url string
			if err := rows.Scan(&url); err == nil {
				d.SideImages = append(d.SideImages, url)
			}
		}
	}
	if d.SideImages == nil {
		d.SideImages = []string{}
	}

	c.JSON(http.StatusOK, d)
}

// GetSuggestions serves full-text search-as-you-type suggestions.
func (a *API) GetSuggestions(c *gin.Context) {
	search := c.Query("search")
	if search == "" {
		c.JSON(http.StatusOK, []ProductCard{})
		return
	}

	const specDocument = `to_tsvector('english',
        coalesce(brand_name, '') || ' ' ||
        coalesce(model_name, '') || ' ' ||
        coalesce(display_name, '') || ' ' ||
        coalesce(product_type, '') || ' ' ||
        coalesce(product_authentication, '') || ' ' ||
        coalesce(suitable_for, '') || ' ' ||
        coalesce(color, '') || ' ' ||
        coalesce(processor_generation, '') || ' ' ||
        coalesce(processor, '') || ' ' ||
        coalesce(processor_series, '') || ' ' ||
        coalesce(ram_type, '') || ' ' ||
        coalesce(storage_type, '') || ' ' ||
        coalesce(graphic, '') || ' ' ||
        coalesce(display, '') || ' ' ||
        coalesce(display_type, '') || ' ' ||
        coalesce(power_supply, '') || ' ' ||
        coalesce(battery, '') || ' ' ||
        coalesce(warranty, ''))`

	sql := `
        SELECT id, face_image_url, display_name, show_price, product_authentication
        FROM laptop_details
        WHERE ` + specDocument + ` @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(` + specDocument + `, plainto_tsquery('english', $1)) DESC
        LIMIT 5`

	rows, err := a.pool.Query(c.Request.Context(), sql, search)
	if err != nil {
		a.log.Error().Err(err).Str("search", search).Msg("suggestion query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion query failed"})
		return
	}
	defer rows.Close()

	cards := make([]ProductCard, 0, 5)
	for rows.Next() {
		var (
			id    int
			image *string
			name  string
			price decimal.Decimal
			tag   *string
		)
		if err := rows.Scan(&id, &image, &name, &price, &tag); err != nil {
			a.log.Error().Err(err).Msg("suggestion scan failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion query failed"})
			return
		}
		card := ProductCard{
			ID:          strconv.Itoa(id),
			Image:       image,
			DisplayName: name,
			ShowPrice:   price.StringFixed(2),
			Tag:         defaultTag,
		}
		if tag != nil {
			card.Tag = *tag
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		a.log.Error().Err(err).Msg("suggestion rows failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion query failed"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

// LaptopFrontend is the home/brand-page card with a grouped "Rs" price.
type LaptopFrontend struct {
	ID          int    `json:"id"`
	Image       string `json:"image"`
	ShowPrice   string `json:"show_price"`
	Tag         string `json:"tag"`
	DisplayName string `json:"display_name"`
}

// rsPrice renders the whole-rupee price with thousands grouping, e.g. "Rs123,456".
func rsPrice(price decimal.Decimal) string {
	return rsPrinter.Sprintf("Rs%d", price.IntPart())
}

func (a *API) TopPicks(c *gin.Context) {
	rows, err := a.pool.Query(c.Request.Context(), `
        SELECT id, face_image_url, product_authentication, show_price, display_name
        FROM laptop_details
        WHERE face_image_url IS NOT NULL
        ORDER BY RANDOM()
        LIMIT 15`)
	if err != nil {
		a.log.Error().Err(err).Msg("top picks query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top picks"})
		return
	}
	defer rows.Close()

	cards, err := scanFrontendCards(rows)
	if err != nil {
		a.log.Error().Err(err).Msg("top picks scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top picks"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

// validBrands is the brand-page allow list.
var validBrands = map[string]string{
	"acer":   "acer",
	"asus":   "asus",
	"lenovo": "lenovo",
	"msi":    "msi",
}

func (a *API) LaptopsByBrand(c *gin.Context) {
	brand, ok := validBrands[strings.ToLower(c.Param("brand_name"))]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not supported"})
		return
	}

	rows, err := a.pool.Query(c.Request.Context(), `
        SELECT id, face_image_url, product_authentication, show_price, display_name
        FROM laptop_details
        WHERE LOWER(brand_name) = $1 AND face_image_url IS NOT NULL
        ORDER BY RANDOM()
        LIMIT 12`, brand)
	if err != nil {
		a.log.Error().Err(err).Str("brand", brand).Msg("brand page query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch laptops"})
		return
	}
	defer rows.Close()

	cards, err := scanFrontendCards(rows)
	if err != nil {
		a.log.Error().Err(err).Str("brand", brand).Msg("brand page scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch laptops"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func scanFrontendCards(rows pgx.Rows) ([]LaptopFrontend, error) {
	cards := make([]LaptopFrontend, 0, 16)
	for rows.Next() {
		var (
			id    int
			image *string
			tag   *string
			price decimal.Decimal
			name  string
		)
		if err := rows.Scan(&id, &image, &tag, &price, &name); err != nil {
			return nil, err
		}
		card := LaptopFrontend{
			ID:          id,
			ShowPrice:   rsPrice(price),
			Tag:         defaultTag,
			DisplayName: name,
		}
		if image != nil {
			card.Image = *image
		}
		if tag != nil {
			card.Tag = *tag
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
