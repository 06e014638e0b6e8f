package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/epasal/epasal-backend/internal/model"
)

func scanMessages(rows pgx.Rows) ([]model.Message, error) {
	messages := make([]model.Message, 0, 32)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Timestamp, &m.Sender, &m.Receiver); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (a *API) GetMessages(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	rows, err := a.pool.Query(c.Request.Context(),
		`SELECT id, user_id, content, timestamp, sender, receiver
         FROM messages WHERE user_id = $1 ORDER BY timestamp ASC`, userID)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("message fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", userID).Msg("message scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// PostMessage persists a user message, routes it to the bot or the admin, and
// when the bot is enabled schedules the reply as a background task. A failed
// bot reply is logged, never surfaced here.
func (a *API) PostMessage(c *gin.Context) {
	var msg model.NewMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	ctx := c.Request.Context()

	// First contact creates the bot settings row with the bot enabled.
	_, err := a.pool.Exec(ctx,
		"INSERT INTO user_bot_settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING",
		msg.UserID)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", msg.UserID).Msg("bot settings upsert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	var botEnabled bool
	err = a.pool.QueryRow(ctx,
		"SELECT bot_enabled FROM user_bot_settings WHERE user_id = $1", msg.UserID,
	).Scan(&botEnabled)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", msg.UserID).Msg("bot settings fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	receiver := "admin"
	if botEnabled {
		receiver = "bot"
	}

	var saved model.Message
	err = a.pool.QueryRow(ctx,
		`INSERT INTO messages (user_id, content, timestamp, sender, receiver)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, user_id, content, timestamp, sender, receiver`,
		msg.UserID, msg.Content, msg.Timestamp, msg.Sender, receiver,
	).Scan(&saved.ID, &saved.UserID, &saved.Content, &saved.Timestamp, &saved.Sender, &saved.Receiver)
	if err != nil {
		a.log.Error().Err(err).Str("user_id", msg.UserID).Msg("message insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	if botEnabled {
		userID, content := msg.UserID, msg.Content
		a.tasks.Go("bot-reply", func(ctx context.Context) error {
			_, err := a.bot.ProcessMessage(ctx, userID, content)
			return err
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": saved})
}
