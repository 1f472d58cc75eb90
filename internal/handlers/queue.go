package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"metapool/internal/models"
	"metapool/internal/queue"
	"metapool/internal/response"
	"metapool/internal/storage"
	"metapool/internal/ws"

	"github.com/gin-gonic/gin"
)

var queueCtx = context.Background()

const (
	statusCacheKey = "queue_status"
	statusCacheTTL = 5 * time.Second
)

// ParticipantView — участник очереди в ответах API.
type ParticipantView struct {
	ID           uint   `json:"id"`
	TokenNumber  uint   `json:"token_number"`
	Name         string `json:"name"`
	RollNo       string `json:"roll_no"`
	RegisteredAt string `json:"registered_at"`
	Status       string `json:"status"`
}

// QueueStatusResponse — полный снимок очереди с производным состоянием.
type QueueStatusResponse struct {
	CurrentToken int               `json:"current_token"`
	Total        int               `json:"total"`
	WaitingCount int               `json:"waiting_count"`
	NeedsStart   bool              `json:"needs_start"`
	Current      *ParticipantView  `json:"current,omitempty"`
	Next         *ParticipantView  `json:"next,omitempty"`
	Participants []ParticipantView `json:"participants"`
	UpdatedAt    string            `json:"updated_at"`
}

func toParticipantView(p *models.Participant) *ParticipantView {
	if p == nil {
		return nil
	}
	return &ParticipantView{
		ID:           p.ID,
		TokenNumber:  p.TokenNumber,
		Name:         p.Name,
		RollNo:       p.RollNo,
		RegisteredAt: p.CreatedAt.Format(time.RFC3339),
		Status:       models.NormalizeStatus(p.Status),
	}
}

func loadQueueSettings() (models.QueueSettings, error) {
	var settings models.QueueSettings
	err := storage.DB.First(&settings, models.QueueSettingsID).Error
	return settings, err
}

// updateCurrentToken переписывает указатель и поля аудита единственной строки настроек.
func updateCurrentToken(newToken int, adminID uint) error {
	return storage.DB.Model(&models.QueueSettings{}).
		Where("id = ?", models.QueueSettingsID).
		Updates(map[string]interface{}{
			"current_token": newToken,
			"updated_by":    adminID,
		}).Error
}

// BuildQueueStatus загружает полный снимок участников и настроек и вычисляет
// производное состояние. Используется обработчиком статуса и периодической рассылкой.
func BuildQueueStatus() (*QueueStatusResponse, error) {
	var participants []models.Participant
	if err := storage.DB.Order("token_number ASC").Find(&participants).Error; err != nil {
		return nil, err
	}

	settings, err := loadQueueSettings()
	if err != nil {
		return nil, err
	}

	state := queue.Derive(participants, settings)

	views := make([]ParticipantView, 0, len(participants))
	for i := range participants {
		views = append(views, *toParticipantView(&participants[i]))
	}

	return &QueueStatusResponse{
		CurrentToken: settings.CurrentToken,
		Total:        state.Total,
		WaitingCount: state.WaitingCount,
		NeedsStart:   state.NeedsStart,
		Current:      toParticipantView(state.Current),
		Next:         toParticipantView(state.Next),
		Participants: views,
		UpdatedAt:    settings.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// InvalidateStatusCache сбрасывает кэш статуса после мутации.
// Ошибки кэша мутацию не ломают: следующий запрос просто пойдёт в базу.
func InvalidateStatusCache() {
	if storage.RedisClient == nil {
		return
	}
	storage.RedisClient.Del(queueCtx, statusCacheKey)
}

// GetQueueStatusHandler обрабатывает запрос публичного табло
// @Summary		Статус очереди
// @Description	Возвращает полный снимок очереди: текущий и следующий участник, число ожидающих, список всех талонов
// @Tags			queue
// @Accept			json
// @Produce		json
// @Success		200	{object}	QueueStatusResponse	"Снимок очереди"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/status [get]
func GetQueueStatusHandler(c *gin.Context) {
	// Проверка кэша
	if storage.RedisClient != nil {
		cached, err := storage.RedisClient.Get(queueCtx, statusCacheKey).Result()
		if err == nil && cached != "" {
			var status QueueStatusResponse
			if err := json.Unmarshal([]byte(cached), &status); err == nil {
				c.JSON(http.StatusOK, status)
				return
			}
		}
	}

	status, err := BuildQueueStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки состояния очереди",
			Details: err.Error(),
		})
		return
	}

	if storage.RedisClient != nil {
		if body, err := json.Marshal(status); err == nil {
			storage.RedisClient.Set(queueCtx, statusCacheKey, string(body), statusCacheTTL)
		}
	}

	c.JSON(http.StatusOK, status)
}

// StartQueueHandler обрабатывает запуск очереди
// @Summary		Запуск очереди
// @Description	Устанавливает указатель на талон первого ожидающего участника
// @Tags			queue
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Очередь запущена"
// @Failure		400	{object}	response.ErrorResponse	"Очередь уже запущена (QUEUE_ALREADY_STARTED) или нет ожидающих (NO_WAITING_PARTICIPANTS)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/start [post]
func StartQueueHandler(c *gin.Context) {
	adminID := c.GetUint("adminID")

	settings, err := loadQueueSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки настроек очереди",
			Details: err.Error(),
		})
		return
	}

	if settings.CurrentToken != 0 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "QUEUE_ALREADY_STARTED",
			Message: "Очередь уже запущена",
		})
		return
	}

	var participants []models.Participant
	if err := storage.DB.Order("token_number ASC").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки участников",
			Details: err.Error(),
		})
		return
	}

	first := queue.Next(participants, settings)
	if first == nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "NO_WAITING_PARTICIPANTS",
			Message: "Нет ожидающих участников для запуска очереди",
		})
		return
	}

	if err := updateCurrentToken(int(first.TokenNumber), adminID); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка обновления указателя очереди",
			Details: err.Error(),
		})
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "queue_started",
		Data: map[string]interface{}{
			"current_token": first.TokenNumber,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusOK, gin.H{"message": "Очередь запущена", "current_token": first.TokenNumber})
}

// AdvanceTokenHandler обрабатывает вызов следующего участника
// @Summary		Вызов следующего
// @Description	Помечает участника с текущим талоном как done и сдвигает указатель на единицу
// @Tags			queue
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Указатель сдвинут"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/advance [post]
func AdvanceTokenHandler(c *gin.Context) {
	finishCurrentAndAdvance(c, models.StatusDone, "token_advanced")
}

// SkipCurrentHandler обрабатывает пропуск текущего участника
// @Summary		Пропуск текущего участника
// @Description	Помечает участника с текущим талоном как skipped и сдвигает указатель на единицу
// @Tags			queue
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Указатель сдвинут"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/skip [post]
func SkipCurrentHandler(c *gin.Context) {
	finishCurrentAndAdvance(c, models.StatusSkipped, "current_skipped")
}

// finishCurrentAndAdvance — общая часть advance/skip: если текущий талон занят,
// участнику проставляется newStatus, затем указатель увеличивается на единицу.
// Занятость талона не обязательна: после пропусков номера бывают разреженными,
// тогда сдвигается только указатель. Две записи обновляются независимо,
// без транзакции между собой.
func finishCurrentAndAdvance(c *gin.Context, newStatus, eventType string) {
	adminID := c.GetUint("adminID")

	settings, err := loadQueueSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки настроек очереди",
			Details: err.Error(),
		})
		return
	}

	var current models.Participant
	if err := storage.DB.Where("token_number = ?", settings.CurrentToken).First(&current).Error; err == nil {
		if err := storage.DB.Model(&current).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка обновления статуса участника",
				Details: err.Error(),
			})
			return
		}
	}

	newToken := settings.CurrentToken + 1
	if err := updateCurrentToken(newToken, adminID); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка обновления указателя очереди",
			Details: err.Error(),
		})
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: eventType,
		Data: map[string]interface{}{
			"current_token": newToken,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusOK, gin.H{"message": "Указатель очереди сдвинут", "current_token": newToken})
}

type SoftResetRequest struct {
	Confirm bool `json:"confirm"`
}

// SoftResetHandler обрабатывает мягкий сброс очереди
// @Summary		Мягкий сброс очереди
// @Description	Возвращает всем участникам статус waiting и обнуляет указатель, регистрации сохраняются
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			confirm	body		SoftResetRequest	true	"Подтверждение сброса"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Очередь сброшена"
// @Failure		400	{object}	response.ErrorResponse	"Сброс не подтверждён (CONFIRM_REQUIRED)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/reset [post]
func SoftResetHandler(c *gin.Context) {
	adminID := c.GetUint("adminID")

	var req SoftResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "CONFIRM_REQUIRED",
			Message: "Сброс очереди требует подтверждения",
		})
		return
	}

	if err := storage.DB.Model(&models.Participant{}).
		Where("status <> ?", models.StatusWaiting).
		Update("status", models.StatusWaiting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка сброса статусов участников",
			Details: err.Error(),
		})
		return
	}

	if err := updateCurrentToken(0, adminID); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка обнуления указателя очереди",
			Details: err.Error(),
		})
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "queue_reset",
		Data: map[string]interface{}{
			"hard": false,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Очередь сброшена, регистрации сохранены"})
}

// HardResetPhrase — контрольная фраза второго шага подтверждения полного сброса.
const HardResetPhrase = "RESET"

type HardResetRequest struct {
	Confirm bool   `json:"confirm"`
	Phrase  string `json:"phrase"`
}

// HardResetHandler обрабатывает полный сброс очереди
// @Summary		Полный сброс очереди
// @Description	Удаляет всех участников, перезапускает последовательность талонов с 1 и обнуляет указатель
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			confirm	body		HardResetRequest	true	"Двухшаговое подтверждение: confirm и контрольная фраза"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Очередь очищена"
// @Failure		400	{object}	response.ErrorResponse	"Сброс не подтверждён (CONFIRM_REQUIRED, CONFIRM_PHRASE_MISMATCH)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/reset/hard [post]
func HardResetHandler(c *gin.Context) {
	adminID := c.GetUint("adminID")

	var req HardResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "CONFIRM_REQUIRED",
			Message: "Полный сброс очереди требует подтверждения",
		})
		return
	}
	if req.Phrase != HardResetPhrase {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "CONFIRM_PHRASE_MISMATCH",
			Message: "Неверная контрольная фраза подтверждения",
		})
		return
	}

	// Unscoped: строки удаляются по-настоящему, иначе уникальный индекс roll_no
	// продолжит видеть мягко удалённые записи.
	if err := storage.DB.Unscoped().Where("1 = 1").Delete(&models.Participant{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка удаления участников",
			Details: err.Error(),
		})
		return
	}

	// Серверная процедура сброса последовательности: следующий талон снова №1.
	if err := storage.DB.Exec("ALTER SEQUENCE participant_tokens RESTART WITH 1").Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка сброса последовательности талонов",
			Details: err.Error(),
		})
		return
	}

	if err := updateCurrentToken(0, adminID); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка обнуления указателя очереди",
			Details: err.Error(),
		})
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "queue_reset",
		Data: map[string]interface{}{
			"hard": true,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Очередь полностью очищена"})
}
