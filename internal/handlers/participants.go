package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"metapool/internal/models"
	"metapool/internal/response"
	"metapool/internal/storage"
	"metapool/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterParticipantRequest struct {
	Name   string `json:"name" binding:"required"`
	RollNo string `json:"roll_no" binding:"required"`
}

// RegisterParticipantHandler обрабатывает регистрацию участника в очереди
// @Summary		Регистрация участника
// @Description	Создаёт участника со статусом waiting, номер талона выдаёт база
// @Tags			participants
// @Accept			json
// @Produce		json
// @Param			participant	body		RegisterParticipantRequest	true	"Имя и номер зачётки"
// @Success		201	{object}	response.RegisteredResponse	"Участник зарегистрирован, номер талона выдан"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR) или номер зачётки занят (ROLL_NO_EXISTS)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/participants [post]
func RegisterParticipantHandler(c *gin.Context) {
	var req RegisterParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	var existing models.Participant
	if err := storage.DB.Where("roll_no = ?", req.RollNo).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "ROLL_NO_EXISTS",
			Message: "Участник с таким номером зачётки уже зарегистрирован",
		})
		return
	}

	participant := models.Participant{
		Name:   req.Name,
		RollNo: req.RollNo,
		Status: models.StatusWaiting,
	}

	if err := storage.DB.Create(&participant).Error; err != nil {
		// Гонка между проверкой и вставкой: уникальный индекс — последний судья.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "ROLL_NO_EXISTS",
				Message: "Участник с таким номером зачётки уже зарегистрирован",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка при регистрации участника",
			Details: err.Error(),
		})
		return
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "participant_registered",
		Data: map[string]interface{}{
			"token_number": participant.TokenNumber,
			"name":         participant.Name,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusCreated, response.RegisteredResponse{
		Message:     "Участник зарегистрирован",
		TokenNumber: participant.TokenNumber,
	})
}

// ListParticipantsHandler обрабатывает запрос списка участников для админки
// @Summary		Список участников
// @Description	Возвращает всех участников по возрастанию номера талона
// @Tags			participants
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200	{array}		ParticipantView	"Список участников"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/participants [get]
func ListParticipantsHandler(c *gin.Context) {
	var participants []models.Participant
	if err := storage.DB.Order("token_number ASC").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки участников",
			Details: err.Error(),
		})
		return
	}

	views := make([]ParticipantView, 0, len(participants))
	for i := range participants {
		views = append(views, *toParticipantView(&participants[i]))
	}

	c.JSON(http.StatusOK, views)
}

// MarkDoneHandler обрабатывает ручное завершение участника
// @Summary		Завершение участника
// @Description	Помечает участника как done; если он занимает текущий талон, указатель сдвигается
// @Tags			participants
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID участника"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Участник помечен как done"
// @Failure		400	{object}	response.ErrorResponse	"Неверный идентификатор (INVALID_PARTICIPANT_ID)"
// @Failure		404	{object}	response.ErrorResponse	"Участник не найден (PARTICIPANT_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/participants/{id}/done [post]
func MarkDoneHandler(c *gin.Context) {
	adminID := c.GetUint("adminID")

	participantID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_PARTICIPANT_ID",
			Message: "Неверный идентификатор участника",
		})
		return
	}

	var participant models.Participant
	if err := storage.DB.First(&participant, participantID).Error; err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "PARTICIPANT_NOT_FOUND",
			Message: "Участник не найден",
		})
		return
	}

	if err := storage.DB.Model(&participant).Update("status", models.StatusDone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка обновления статуса участника",
			Details: err.Error(),
		})
		return
	}

	settings, err := loadQueueSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки настроек очереди",
			Details: err.Error(),
		})
		return
	}

	// Завершённый участник занимал текущий талон — окно освободилось.
	if int(participant.TokenNumber) == settings.CurrentToken {
		if err := updateCurrentToken(settings.CurrentToken+1, adminID); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка обновления указателя очереди",
				Details: err.Error(),
			})
			return
		}
	}

	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: "participant_done",
		Data: map[string]interface{}{
			"participant_id": participant.ID,
			"token_number":   participant.TokenNumber,
		},
	})
	InvalidateStatusCache()

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Участник помечен как завершивший"})
}
