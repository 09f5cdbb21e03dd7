package jobs

import (
	"context"
	"log"
	"time"

	"github.com/mshibata/fleamarket/database"
	"github.com/mshibata/fleamarket/models"
	"github.com/mshibata/fleamarket/storage"
)

// RetryImageCleanups drains the queue of chat images whose storage
// deletion failed when their message was destroyed. Rows stay queued until
// the storage call succeeds.
func RetryImageCleanups() {
	var queued []models.ImageCleanup
	if err := database.DB.Order("created_at asc").Limit(50).Find(&queued).Error; err != nil {
		log.Printf("Failed to load image cleanup queue: %v", err)
		return
	}

	for _, row := range queued {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := storage.Default.Delete(ctx, row.ImagePath)
		cancel()
		if err != nil {
			log.Printf("Image cleanup retry failed for %s (attempt %d): %v", row.ImagePath, row.Attempts+1, err)
			database.DB.Model(&row).Update("attempts", row.Attempts+1)
			continue
		}
		database.DB.Delete(&row)
	}
}
