package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// LaptopSummary is one dashboard row: lifetime sales for a catalog entry.
type LaptopSummary struct {
	ID                int     `json:"id"`
	BrandName         string  `json:"brand_name"`
	ModelName         string  `json:"model_name"`
	FaceImageURL      *string `json:"face_image_url"`
	TotalQuantitySold int64   `json:"total_quantity_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
}

func (a *API) Dashboard(c *gin.Context) {
	rows, err := a.pool.Query(c.Request.Context(), `
        SELECT ld.id, ld.brand_name, ld.model_name, ld.face_image_url,
               SUM(ls.quantity) AS total_quantity_sold,
               SUM(ls.price_at_sale * ls.quantity) AS total_revenue
        FROM laptop_details ld
        LEFT JOIN laptops_sold ls ON ld.id = ls.laptop_id
        GROUP BY ld.id, ld.brand_name, ld.model_name, ld.face_image_url
        HAVING SUM(ls.quantity) > 0
        ORDER BY total_quantity_sold DESC
        LIMIT 10`)
	if err != nil {
		a.log.Error().Err(err).Msg("dashboard query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
		return
	}
	defer rows.Close()

	summaries := make([]LaptopSummary, 0, 10)
	for rows.Next() {
		var (
			s       LaptopSummary
			sold    *int64
			revenue *decimal.Decimal
		)
		if err := rows.Scan(&s.ID, &s.BrandName, &s.ModelName, &s.FaceImageURL, &sold, &revenue); err != nil {
			a.log.Error().Err(err).Msg("dashboard scan failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
			return
		}
		if sold != nil {
			s.TotalQuantitySold = *sold
		}
		if revenue != nil {
			s.TotalRevenue = revenue.InexactFloat64()
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		a.log.Error().Err(err).Msg("dashboard rows failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// ChatUser pairs a chat user id with the account name.
type ChatUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *API) AdminListChatUsers(c *gin.Context) {
	rows, err := a.pool.Query(c.Request.Context(), `
        SELECT user_bot_settings.user_id AS id, logininfo.name
        FROM user_bot_settings
        JOIN logininfo ON logininfo.id::TEXT = user_bot_settings.user_id
        ORDER BY logininfo.name`)
	if err != nil {
		a.log.Error().Err(err).Msg("chat user list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer rows.Close()

	users := make([]ChatUser, 0, 16)
	for rows.Next() {
		var u ChatUser
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			a.log.Error().Err(err).Msg("chat user scan failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		a.log.Error().Err(err).Msg("chat user rows failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (a *API) AdminGetChat(c *gin.Context) {
	userID := c.Param("user_id")
	ctx := c.Request.Context()

	rows, err := a.pool.Query(ctx,
		`SELECT id, user_id, content, timestamp, sender, receiver
         FROM messages WHERE user_id = $1 ORDER BY timestamp ASC`, userID)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("admin chat fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("admin chat scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	botEnabled := false
	err = a.pool.QueryRow(ctx,
		"SELECT bot_enabled FROM user_bot_settings WHERE user_id = $1", userID,
	).Scan(&botEnabled)
	if err != nil {
		// Missing settings row just means the bot toggle was never touched.
		botEnabled = false
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":    messages,
		"bot_enabled": botEnabled,
	})
}

type BotStatusPayload struct {
	BotEnabled bool `json:"bot_enabled"`
}

func (a *API) AdminUpdateBotStatus(c *gin.Context) {
	userID := c.Param("user_id")

	var payload BotStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := a.pool.Exec(c.Request.Context(), `
        INSERT INTO user_bot_settings (user_id, bot_enabled)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET bot_enabled = EXCLUDED.bot_enabled`,
		userID, payload.BotEnabled)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("bot status update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bot status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bot status updated successfully"})
}

type SendMessagePayload struct {
	UserID    string    `json:"user_id" binding:"required"`
	Content   string    `json:"content" binding:"required"`
	Sender    string    `json:"sender" binding:"required"`
	Receiver  string    `json:"receiver" binding:"required"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *API) AdminSendMessage(c *gin.Context) {
	userID := c.Param("user_id")

	var payload SendMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if userID != payload.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID in path and body do not match"})
		return
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now().UTC()
	}

	_, err := a.pool.Exec(c.Request.Context(),
		`INSERT INTO messages (user_id, content, sender, receiver, timestamp)
         VALUES ($1, $2, $3, $4, $5)`,
		payload.UserID, payload.Content, payload.Sender, payload.Receiver, payload.Timestamp)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("admin message insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

// InventoryItem is the admin inventory listing row.
type InventoryItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	ProductType string  `json:"product_type"`
	Quantity    int     `json:"quantity"`
	CostPrice   float64 `json:"cost_price"`
}

func (a *API) GetInventory(c *gin.Context) {
	rows, err := a.pool.Query(c.Request.Context(), `
        SELECT id, brand_name, model_name, model_year, face_image_url,
               product_authentication, quantity, cost_price
        FROM laptop_details`)
	if err != nil {
		a.log.Error().Err(err).Msg("inventory query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	defer rows.Close()

	items := make([]InventoryItem, 0, 64)
	for rows.Next() {
		var (
			id        int
			brand     string
			modelName string
			year      *int
			image     *string
			tag       *string
			quantity  int
			costPrice decimal.Decimal
		)
		if err := rows.Scan(&id, &brand, &modelName, &year, &image, &tag, &quantity, &costPrice); err != nil {
			a.log.Error().Err(err).Msg("inventory scan failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
			return
		}

		yearVal := 0
		if year != nil {
			yearVal = *year
		}
		item := InventoryItem{
			ID:          id,
			Name:        fmt.Sprintf("%s %s %d", brand, modelName, yearVal),
			ProductType: "Unknown",
			Quantity:    quantity,
			CostPrice:   costPrice.InexactFloat64(),
		}
		if image != nil {
			item.Image = *image
		}
		if tag != nil {
			item.ProductType = *tag
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		a.log.Error().Err(err).Msg("inventory rows failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, items)
}

type UpdateCostPriceRequest struct {
	CostPrice decimal.Decimal `json:"cost_price"`
}

func (a *API) UpdateCostPrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory id"})
		return
	}

	var req UpdateCostPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = a.pool.Exec(c.Request.Context(),
		"UPDATE laptop_details SET cost_price = $1 WHERE id = $2", req.CostPrice, id)
	if err != nil {
		a.log.Error().Err(err).Int("id", id).Msg("cost price update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cost price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// LaptopForm is the JSON part of the multipart laptop insertion request.
type LaptopForm struct {
	BrandName             string  `json:"brand_name"`
	DisplayName           string  `json:"display_name"`
	ProductAuthentication string  `json:"product_authentication"`
	ModelName             string  `json:"model_name"`
	ModelYear             int     `json:"model_year"`
	ProductType           string  `json:"product_type"`
	SuitableFor           string  `json:"suitable_for"`
	Color                 string  `json:"color"`
	RAM                   int     `json:"ram"`
	RAMType               string  `json:"ram_type"`
	Processor             string  `json:"processor"`
	ProcessorSeries       string  `json:"processor_series"`
	ProcessorGeneration   string  `json:"processor_generation"`
	Storage               int     `json:"storage"`
	StorageType           string  `json:"storage_type"`
	Warranty              string  `json:"warranty"`
	Graphic               string  `json:"graphic"`
	GraphicRAM            int     `json:"graphic_ram"`
	Display               string  `json:"display"`
	DisplayType           string  `json:"display_type"`
	Battery               string  `json:"battery"`
	PowerSupply           string  `json:"power_supply"`
	Touchscreen           bool    `json:"touchscreen"`
	CostPrice             float64 `json:"cost_price"`
	ShowPrice             float64 `json:"show_price"`
	Quantity              int     `json:"quantity"`
}

// InsertLaptop accepts a multipart request with a "form" JSON part, a
// required faceImage file and any number of sideImages[] files.
func (a *API) InsertLaptop(c *gin.Context) {
	mpForm, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Error reading multipart form: %v", err)})
		return
	}

	formValues := mpForm.Value["form"]
	if len(formValues) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing form data"})
		return
	}

	var form LaptopForm
	if err := json.Unmarshal([]byte(formValues[0]), &form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid form JSON: %v", err)})
		return
	}

	faceFiles := mpForm.File["faceImage"]
	if len(faceFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing faceImage"})
		return
	}

	ctx := c.Request.Context()

	var existing int
	err = a.pool.QueryRow(ctx, `
        SELECT id FROM laptop_details
        WHERE brand_name = $1 AND model_name = $2 AND model_year = $3 AND product_type = $4`,
		form.BrandName, form.ModelName, form.ModelYear, form.ProductType,
	).Scan(&existing)
	found, lookupErr := duplicateLookup(err)
	if lookupErr != nil {
		a.log.Error().Err(lookupErr).Msg("laptop duplicate check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing laptops"})
		return
	}
	if found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Laptop already exists in the database"})
		return
	}

	facePath, err := a.saveUpload(c, faceFiles[0], "face")
	if err != nil {
		a.log.Error().Err(err).Msg("face image save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving face image"})
		return
	}

	var laptopID int
	err = a.pool.QueryRow(ctx, `
        INSERT INTO laptop_details (
            brand_name, display_name, product_authentication, model_name, model_year,
            product_type, suitable_for, color, ram, ram_type,
            processor, processor_series, processor_generation, storage, storage_type,
            warranty, graphic, graphic_ram, display, display_type,
            battery, power_supply, touchscreen, cost_price, show_price, quantity,
            face_image_url
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
            $21, $22, $23, $24, $25, $26, $27
        ) RETURNING id`,
		form.BrandName, form.DisplayName, form.ProductAuthentication, form.ModelName, form.ModelYear,
		form.ProductType, form.SuitableFor, form.Color, form.RAM, form.RAMType,
		form.Processor, form.ProcessorSeries, form.ProcessorGeneration, form.Storage, form.StorageType,
		form.Warranty, form.Graphic, form.GraphicRAM, form.Display, form.DisplayType,
		form.Battery, form.PowerSupply, form.Touchscreen, form.CostPrice, form.ShowPrice, form.Quantity,
		facePath,
	).Scan(&laptopID)
	if err != nil {
		a.log.Error().Err(err).Msg("laptop insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert laptop"})
		return
	}

	for _, file := range mpForm.File["sideImages[]"] {
		path, err := a.saveUpload(c, file, "side")
		if err != nil {
			a.log.Error().Err(err).Msg("side image save failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving side image"})
			return
		}
		if _, err := a.pool.Exec(ctx,
			"INSERT INTO laptop_side_images (laptop_id, image_url) VALUES ($1, $2)",
			laptopID, path); err != nil {
			a.log.Error().Err(err).Int("laptop_id", laptopID).Msg("side image insert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert side image path"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Laptop inserted successfully",
	})
}

// duplicateLookup interprets the duplicate-check scan result. Only a missing
// row clears the insert; any other lookup failure is surfaced.
func duplicateLookup(err error) (found bool, lookupErr error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

func (a *API) saveUpload(c *gin.Context, file *multipart.FileHeader, kind string) (string, error) {
	dir := filepath.Join(a.cfg.UploadDir, "laptops", kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+".jpg")
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// UploadInventoryExcel bulk-imports catalog rows from the "Laptops" sheet of
// an uploaded workbook. Rows with missing or unparsable columns are skipped.
func (a *API) UploadInventoryExcel(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File upload failed"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer f.Close()

	xlsx, err := excelize.OpenReader(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Excel file"})
		return
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows("Laptops")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read sheet"})
		return
	}

	ctx := c.Request.Context()
	inserted := 0

	// Columns: brand, model, display name, year, show price, cost price, quantity.
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 7 {
			a.log.Warn().Int("row", i).Int("columns", len(row)).Msg("excel row skipped: insufficient columns")
			continue
		}

		year, err := strconv.Atoi(row[3])
		if err != nil {
			a.log.Warn().Int("row", i).Str("value", row[3]).Msg("excel row skipped: invalid year")
			continue
		}
		showPrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			a.log.Warn().Int("row", i).Str("value", row[4]).Msg("excel row skipped: invalid show price")
			continue
		}
		costPrice, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			a.log.Warn().Int("row", i).Str("value", row[5]).Msg("excel row skipped: invalid cost price")
			continue
		}
		quantity, err := strconv.Atoi(row[6])
		if err != nil {
			a.log.Warn().Int("row", i).Str("value", row[6]).Msg("excel row skipped: invalid quantity")
			continue
		}

		_, err = a.pool.Exec(ctx, `
            INSERT INTO laptop_details (brand_name, model_name, display_name, model_year,
                show_price, cost_price, quantity)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row[0], row[1], row[2], year, showPrice, costPrice, quantity)
		if err != nil {
			a.log.Error().Err(err).Int("row", i).Msg("excel row insert failed")
			continue
		}
		inserted++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Upload successful",
		"inserted": inserted,
	})
}
