package queue

import (
	"testing"

	"metapool/internal/models"

	"github.com/stretchr/testify/assert"
)

func participant(token uint, status string) models.Participant {
	p := models.Participant{TokenNumber: token, Status: status}
	p.ID = token
	return p
}

func settingsAt(token int) models.QueueSettings {
	return models.QueueSettings{ID: models.QueueSettingsID, CurrentToken: token}
}

func TestCurrent(t *testing.T) {
	parts := []models.Participant{
		participant(1, models.StatusDone),
		participant(2, models.StatusWaiting),
		participant(3, models.StatusWaiting),
	}

	assert.Nil(t, Current(parts, settingsAt(0)), "при current_token=0 текущего участника нет")

	cur := Current(parts, settingsAt(2))
	assert.NotNil(t, cur)
	assert.Equal(t, uint(2), cur.TokenNumber)

	// Разреженные номера: талон 4 никем не занят
	assert.Nil(t, Current(parts, settingsAt(4)), "незанятый талон — это не ошибка")
}

func TestNext(t *testing.T) {
	parts := []models.Participant{
		participant(1, models.StatusDone),
		participant(2, models.StatusSkipped),
		participant(3, models.StatusWaiting),
		participant(5, models.StatusWaiting),
	}

	next := Next(parts, settingsAt(1))
	assert.NotNil(t, next)
	assert.Equal(t, uint(3), next.TokenNumber, "следующим должен быть минимальный ожидающий талон")

	next = Next(parts, settingsAt(3))
	assert.NotNil(t, next)
	assert.Equal(t, uint(5), next.TokenNumber, "пропуски в нумерации перешагиваются")

	assert.Nil(t, Next(parts, settingsAt(5)), "после последнего ожидающего следующего нет")
}

func TestNextIgnoresFinishedStatuses(t *testing.T) {
	parts := []models.Participant{
		participant(2, models.StatusDone),
		participant(3, models.LegacyStatusCompleted),
		participant(4, models.StatusWaiting),
	}

	next := Next(parts, settingsAt(1))
	assert.NotNil(t, next)
	assert.Equal(t, uint(4), next.TokenNumber, "устаревший статус completed считается завершённым")
}

func TestWaitingCount(t *testing.T) {
	parts := []models.Participant{
		participant(1, models.StatusDone),
		participant(2, models.StatusWaiting),
		participant(3, models.StatusSkipped),
		participant(4, models.StatusWaiting),
	}

	assert.Equal(t, 2, WaitingCount(parts, settingsAt(0)))
	assert.Equal(t, 2, WaitingCount(parts, settingsAt(1)))
	assert.Equal(t, 1, WaitingCount(parts, settingsAt(2)), "участник на текущем талоне не считается ожидающим")
	assert.Equal(t, 0, WaitingCount(parts, settingsAt(4)))
	assert.Equal(t, 0, WaitingCount(parts, settingsAt(100)), "счётчик не бывает отрицательным")
	assert.Equal(t, 0, WaitingCount(nil, settingsAt(0)))
}

func TestNeedsStart(t *testing.T) {
	assert.False(t, NeedsStart(nil, settingsAt(0)), "пустая очередь не требует запуска")

	parts := []models.Participant{participant(1, models.StatusWaiting)}
	assert.True(t, NeedsStart(parts, settingsAt(0)), "есть ожидающий и указатель на нуле — нужен запуск")
	assert.False(t, NeedsStart(parts, settingsAt(1)), "запущенная очередь запуска не требует")

	finished := []models.Participant{participant(1, models.StatusDone)}
	assert.False(t, NeedsStart(finished, settingsAt(0)), "без ожидающих запуск не нужен")
}

func TestDeriveScenario(t *testing.T) {
	// Регистрация Алисы: талон 1, статус waiting, очередь не запущена.
	alice := participant(1, models.StatusWaiting)
	parts := []models.Participant{alice}

	state := Derive(parts, settingsAt(0))
	assert.Nil(t, state.Current)
	assert.True(t, state.NeedsStart)
	assert.Equal(t, 1, state.WaitingCount)
	assert.Equal(t, 1, state.Total)

	// startQueue: указатель на талоне Алисы.
	state = Derive(parts, settingsAt(1))
	assert.NotNil(t, state.Current)
	assert.Equal(t, uint(1), state.Current.TokenNumber)
	assert.Nil(t, state.Next)
	assert.Equal(t, 0, state.WaitingCount)
	assert.False(t, state.NeedsStart)

	// advance: Алиса done, указатель на 2 — текущего больше нет.
	parts[0].Status = models.StatusDone
	state = Derive(parts, settingsAt(2))
	assert.Nil(t, state.Current)
	assert.Nil(t, state.Next)
	assert.Equal(t, 0, state.WaitingCount)
	assert.False(t, state.NeedsStart)
}
