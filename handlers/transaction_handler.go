package handlers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mshibata/fleamarket/database"
	"github.com/mshibata/fleamarket/models"
)

type TransactionSummary struct {
	SoldItemID    uuid.UUID   `json:"sold_item_id"`
	Item          models.Item `json:"item"`
	LastMessageAt time.Time   `json:"last_message_at"`
	UnreadCount   int         `json:"unread_count"`
}

// GetTransactions lists the requester's other open transactions for the
// chat sidebar, most recently active first. Activity is the newest chat's
// timestamp, falling back to the sale itself for silent conversations.
func GetTransactions(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	currentItem := c.Query("item")

	query := database.DB.
		Joins("JOIN items ON items.id = sold_items.item_id").
		Where("sold_items.buyer_id = ? OR items.seller_id = ?", userID, userID).
		Preload("Item").
		Preload("Chats")
	if currentItem != "" {
		query = query.Where("items.id <> ?", currentItem)
	}

	var sales []models.SoldItem
	if err := query.Find(&sales).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch transactions"})
	}

	summaries := make([]TransactionSummary, 0, len(sales))
	for _, sale := range sales {
		summary := TransactionSummary{
			SoldItemID:    sale.ID,
			Item:          sale.Item,
			LastMessageAt: sale.CreatedAt,
		}
		for _, chat := range sale.Chats {
			if chat.CreatedAt.After(summary.LastMessageAt) {
				summary.LastMessageAt = chat.CreatedAt
			}
			if chat.SenderID != userID && chat.ReadAt == nil {
				summary.UnreadCount++
			}
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})

	return c.JSON(fiber.Map{"data": summaries})
}
