package model

import "github.com/shopspring/decimal"

// Laptop is a catalog entry. Optional spec-sheet columns are pointers so a
// missing value is distinguishable from a zero one; the recommendation scorer
// relies on that distinction.
type Laptop struct {
	ID                    int             `json:"id"`
	DisplayName           string          `json:"display_name"`
	BrandName             string          `json:"brand_name"`
	ModelName             string          `json:"model_name"`
	ModelYear             *int            `json:"model_year"`
	ProductAuthentication *string         `json:"product_authentication"`
	ProductType           *string         `json:"product_type"`
	SuitableFor           *string         `json:"suitable_for"`
	Color                 *string         `json:"color"`
	Processor             *string         `json:"processor"`
	ProcessorGeneration   *string         `json:"processor_generation"`
	ProcessorSeries       *string         `json:"processor_series"`
	RAM                   *int            `json:"ram"`
	RAMType               *string         `json:"ram_type"`
	Storage               *int            `json:"storage"`
	StorageType           *string         `json:"storage_type"`
	Warranty              *string         `json:"warranty"`
	Graphic               *string         `json:"graphic"`
	GraphicRAM            *int            `json:"graphic_ram"`
	Display               *string         `json:"display"`
	DisplayType           *string         `json:"display_type"`
	Battery               *string         `json:"battery"`
	PowerSupply           *string         `json:"power_supply"`
	Touchscreen           *bool           `json:"touchscreen"`
	ShowPrice             decimal.Decimal `json:"show_price"`
	CostPrice             decimal.Decimal `json:"cost_price"`
	Quantity              int             `json:"quantity"`
	FaceImageURL          *string         `json:"face_image_url"`
}
