package tasks

import (
	"log"

	"metapool/internal/handlers"
	"metapool/internal/ws"

	"github.com/robfig/cron/v3"
)

// BroadcastQueueSnapshot рассылает полный снимок очереди всем подключённым табло.
// Это второй источник обновлений помимо событий мутаций: пассивные экраны
// получают свежие данные каждые 10 секунд, даже если пропустили событие.
// Ошибки только логируются, зрителей фоновые сбои не касаются.
func BroadcastQueueSnapshot() {
	status, err := handlers.BuildQueueStatus()
	if err != nil {
		log.Println("Ошибка построения снимка очереди для рассылки:", err)
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "queue_snapshot",
		Data: map[string]interface{}{
			"current_token": status.CurrentToken,
			"waiting_count": status.WaitingCount,
			"needs_start":   status.NeedsStart,
			"total":         status.Total,
		},
	})
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Периодическая рассылка снимка очереди каждые 10 секунд.
	_, err := c.AddFunc("*/10 * * * * *", BroadcastQueueSnapshot)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи BroadcastQueueSnapshot:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
