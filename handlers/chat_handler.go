package handlers

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mshibata/fleamarket/database"
	"github.com/mshibata/fleamarket/models"
	"github.com/mshibata/fleamarket/storage"
	"gorm.io/gorm"
)

const chatPageSize = 20

// GetItemChats lists one page of a transaction's messages, newest first.
// Opening the conversation also marks everything the peer sent as read,
// whichever page was asked for.
func GetItemChats(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	item, soldItem, err := findTransaction(c.Params("item"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Transaction not found"})
	}
	if userID != soldItem.BuyerID && userID != item.SellerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	var total int64
	if err := database.DB.Model(&models.Chat{}).
		Where("sold_item_id = ?", soldItem.ID).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch messages"})
	}

	chats := []models.Chat{}
	if err := database.DB.
		Preload("Sender.Profile").
		Where("sold_item_id = ?", soldItem.ID).
		Order("created_at desc, id desc").
		Limit(chatPageSize).
		Offset((page - 1) * chatPageSize).
		Find(&chats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch messages"})
	}

	if err := MarkPeerChatsRead(database.DB, soldItem.ID, userID); err != nil {
		log.Printf("Failed to mark chats read for transaction %s: %v", soldItem.ID, err)
	}

	lastPage := int((total + chatPageSize - 1) / chatPageSize)
	if lastPage < 1 {
		lastPage = 1
	}
	var nextPageURL, prevPageURL *string
	if page < lastPage {
		u := pageURL(c.Path(), page+1)
		nextPageURL = &u
	}
	if page > 1 {
		u := pageURL(c.Path(), page-1)
		prevPageURL = &u
	}

	return c.JSON(fiber.Map{
		"data":          chats,
		"current_page":  page,
		"per_page":      chatPageSize,
		"total":         total,
		"last_page":     lastPage,
		"next_page_url": nextPageURL,
		"prev_page_url": prevPageURL,
	})
}

// CreateItemChat stores a new message from the requester. At least one of
// the text body or the image must be present.
func CreateItemChat(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	item, soldItem, err := findTransaction(c.Params("item"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Transaction not found"})
	}
	if userID != soldItem.BuyerID && userID != item.SellerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}

	message := c.FormValue("message")
	file, fileErr := c.FormFile("image")
	hasImage := fileErr == nil && file != nil

	fieldErrors := map[string][]string{}
	if message == "" && !hasImage {
		fieldErrors["message"] = append(fieldErrors["message"], "The message field is required when no image is attached.")
	}
	if hasImage && !isAllowedImage(file.Filename) {
		fieldErrors["image"] = append(fieldErrors["image"], "The image must be a png or jpeg file.")
	}
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fieldErrors})
	}

	var imagePath *string
	if hasImage {
		path, err := storage.Default.Store(c.Context(), file, "chat_images")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to upload image"})
		}
		imagePath = &path
	}

	chat := models.Chat{
		SoldItemID: soldItem.ID,
		SenderID:   userID,
		Message:    message,
		ImagePath:  imagePath,
	}
	if err := database.DB.Create(&chat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save message"})
	}

	if err := database.DB.Preload("Sender.Profile").First(&chat, "id = ?", chat.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load message"})
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}

// GetChat returns a single message. Either participant of the owning
// transaction may read it.
func GetChat(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var chat models.Chat
	if err := database.DB.
		Preload("Sender.Profile").
		Preload("SoldItem.Item").
		First(&chat, "id = ?", c.Params("chat")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Message not found"})
	}

	if userID != chat.SoldItem.BuyerID && userID != chat.SoldItem.Item.SellerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}

	return c.JSON(chat)
}

type UpdateChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// UpdateChat edits a message's text. Only the sender may edit, and only
// the text: a resubmitted image is ignored on purpose.
func UpdateChat(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var chat models.Chat
	if err := database.DB.First(&chat, "id = ?", c.Params("chat")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Message not found"})
	}
	if chat.SenderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}

	var req UpdateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": validationErrors(err)})
	}

	chat.Message = req.Message
	if err := database.DB.Model(&chat).Update("message", req.Message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update message"})
	}

	if err := database.DB.Preload("Sender.Profile").First(&chat, "id = ?", chat.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load message"})
	}

	return c.JSON(chat)
}

// DeleteChat removes a message permanently. Storage cleanup of an attached
// image is best effort: a failure is queued for the cron sweep and never
// blocks the row deletion.
func DeleteChat(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var chat models.Chat
	if err := database.DB.First(&chat, "id = ?", c.Params("chat")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Message not found"})
	}
	if chat.SenderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}

	if chat.ImagePath != nil {
		if err := storage.Default.Delete(c.Context(), *chat.ImagePath); err != nil {
			log.Printf("Failed to delete chat image %s, queueing for cleanup: %v", *chat.ImagePath, err)
			database.DB.Create(&models.ImageCleanup{ImagePath: *chat.ImagePath})
		}
	}

	if err := database.DB.Delete(&chat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to delete message"})
	}

	return c.JSON(fiber.Map{"message": "Deleted successfully"})
}

// MarkPeerChatsRead stamps read_at on every unread message the other
// participant sent in the transaction. Idempotent; callable apart from the
// listing so the sweep can be exercised on its own.
func MarkPeerChatsRead(db *gorm.DB, soldItemID, readerID uuid.UUID) error {
	return db.Model(&models.Chat{}).
		Where("sold_item_id = ? AND sender_id <> ? AND read_at IS NULL", soldItemID, readerID).
		Update("read_at", time.Now()).Error
}

// findTransaction resolves the listing and its sale. A listing without a
// completed sale has no conversation; both cases are a not-found, never a
// permission failure.
func findTransaction(itemID string) (*models.Item, *models.SoldItem, error) {
	var item models.Item
	if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
		return nil, nil, err
	}

	var soldItem models.SoldItem
	if err := database.DB.First(&soldItem, "item_id = ?", item.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, gorm.ErrRecordNotFound
		}
		return nil, nil, err
	}

	return &item, &soldItem, nil
}

func pageURL(path string, page int) string {
	return path + "?page=" + strconv.Itoa(page)
}

func isAllowedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
