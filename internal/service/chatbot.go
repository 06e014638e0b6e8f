package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/epasal/epasal-backend/pkg/config"
)

const chatbotSystemPrompt = `
You are a backend assistant for an e-commerce laptop store in Nepal. Shop name is epasal.

DO NOT generate product listings or product data.
ONLY return a JSON object like:
{
  "action": "search",
  "filters": {
    "brand_name": "acer",
    "ram": 16,
    "graphic": "rtx 3050",
    "show_price": { "lte": 180000 }
  }
}

NEVER include descriptions, prices, or recommendations yourself.
NEVER guess what laptops are available.

User filters may include:
- brand_name, model_name, model_year, display_name, product_type, suitable_for, color,
  processor_generation, processor, processor_series, ram, ram_type, storage, storage_type,
  graphic, graphic_ram, display, display_type, touchscreen, power_supply, battery, warranty,
  show_price (in NPR)

Once enough filters are collected from the user, return the JSON.
Otherwise, keep asking clarifying questions to get more filter info.

Until enough information is gathered, keep the conversation friendly and natural.
`

const askMoreReply = "Could you please tell me a bit more, like your budget, RAM, storage, or intended use (e.g., gaming, study, editing)? This will help me suggest the best laptops for you."

// Columns the assistant may filter on. Anything else coming back from the
// model is dropped; column names are never taken from the response text.
var (
	botNumericColumns = map[string]bool{
		"ram": true, "graphic_ram": true, "show_price": true,
		"model_year": true, "storage": true,
	}
	botTextColumns = map[string]bool{
		"brand_name": true, "model_name": true, "display_name": true,
		"product_type": true, "suitable_for": true, "color": true,
		"processor_generation": true, "processor": true, "processor_series": true,
		"ram_type": true, "storage_type": true, "graphic": true,
		"display": true, "display_type": true, "power_supply": true,
		"battery": true, "warranty": true,
	}
)

// Chatbot turns free-text shopping intent into catalog queries via a
// chat-completion backend and writes its replies to the messages table.
type Chatbot struct {
	pool    *pgxpool.Pool
	cfg     config.Chat
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewChatbot(pool *pgxpool.Pool, cfg config.Chat, baseURL string, log zerolog.Logger) *Chatbot {
	return &Chatbot{
		pool:    pool,
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log.With().Str("component", "chatbot").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// ProcessMessage generates and persists the bot's reply to one user message.
// The caller has already stored the user message itself.
func (b *Chatbot) ProcessMessage(ctx context.Context, userID, userMessage string) (string, error) {
	history, err := b.loadHistory(ctx, userID)
	if err != nil {
		return "", err
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: strings.TrimSpace(chatbotSystemPrompt)})
	messages = append(messages, history...)
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	reply, err := b.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	jsonStr, ok := extractJSONObject(reply)
	if !ok {
		return b.saveReply(ctx, userID, reply)
	}

	var parsed struct {
		Action  string         `json:"action"`
		Filters map[string]any `json:"filters"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil || parsed.Action != "search" {
		return b.saveReply(ctx, userID, reply)
	}

	pred := searchPredicate(parsed.Filters)
	if pred.Len() <= 2 {
		return b.saveReply(ctx, userID, askMoreReply)
	}

	text, err := b.runSearch(ctx, pred)
	if err != nil {
		return "", err
	}
	return b.saveReply(ctx, userID, text)
}

func (b *Chatbot) loadHistory(ctx context.Context, userID string) ([]chatMessage, error) {
	rows, err := b.pool.Query(ctx,
		"SELECT sender, content FROM messages WHERE user_id = $1 ORDER BY timestamp ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var history []chatMessage
	for rows.Next() {
		var sender, content string
		if err := rows.Scan(&sender, &content); err != nil {
			return nil, fmt.Errorf("failed to scan chat history: %w", err)
		}
		role := "user"
		if sender == "bot" {
			role = "assistant"
		}
		history = append(history, chatMessage{Role: role, Content: content})
	}
	return history, rows.Err()
}

func (b *Chatbot) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: b.cfg.Model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat API request failed: %w", err)
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if result.Message.Content == "" {
		return "Sorry, I didn’t understand that.", nil
	}
	return result.Message.Content, nil
}

// extractJSONObject returns the outermost brace-delimited span of text, the
// model's structured answer when it produced one.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || start >= end {
		return "", false
	}
	return text[start : end+1], true
}

// searchPredicate translates the model's filter object into bound clauses.
// Numeric columns accept a bare number, a numeric string, or an object of
// lte/gte/eq bounds; text columns match as case-insensitive substrings.
func searchPredicate(filters map[string]any) *Predicate {
	p := &Predicate{}
	for key, val := range filters {
		switch {
		case botNumericColumns[key]:
			switch v := val.(type) {
			case map[string]any:
				for op, bound := range v {
					n, ok := asInt64(bound)
					if !ok {
						continue
					}
					switch op {
					case "lte":
						p.And(key, "<=", n)
					case "gte":
						p.And(key, ">=", n)
					case "eq":
						p.And(key, "=", n)
					}
				}
			default:
				if n, ok := asInt64(v); ok {
					p.And(key, "=", n)
				}
			}
		case botTextColumns[key]:
			if s, ok := val.(string); ok {
				p.And(key, "ILIKE", "%"+s+"%")
			}
		case key == "touchscreen":
			if flag, ok := val.(bool); ok {
				p.And(key, "=", flag)
			}
		}
	}
	return p
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func (b *Chatbot) runSearch(ctx context.Context, pred *Predicate) (string, error) {
	where, args := pred.Render(1)
	sql := "SELECT id, display_name, show_price FROM laptop_details WHERE 1=1" +
		where + " ORDER BY show_price ASC LIMIT 4"

	rows, err := b.pool.Query(ctx, sql, args...)
	if err != nil {
		return "", fmt.Errorf("bot search query failed: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var (
			id    int
			name  string
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &name, &price); err != nil {
			return "", fmt.Errorf("failed to scan bot search row: %w", err)
		}
		links = append(links, fmt.Sprintf("- [%s](https://%s/products?id=%d) - NPR %s",
			name, strings.TrimPrefix(b.baseURL, "https://"), id, price.StringFixed(2)))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(links) == 0 {
		return "Sorry, no laptops matched your preferences. Would you like to try different filters?", nil
	}

	return "Here are some laptops I found for you:\n" + strings.Join(links, "\n"), nil
}

func (b *Chatbot) saveReply(ctx context.Context, userID, text string) (string, error) {
	_, err := b.pool.Exec(ctx,
		"INSERT INTO messages (user_id, content, timestamp, sender, receiver) VALUES ($1, $2, $3, 'bot', 'user')",
		userID, text, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save bot reply: %w", err)
	}
	return text, nil
}
