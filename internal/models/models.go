package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы участника очереди.
const (
	StatusWaiting = "waiting"
	StatusDone    = "done"
	StatusSkipped = "skipped"

	// Устаревшее значение из ранней ревизии интерфейса, синоним StatusDone.
	LegacyStatusCompleted = "completed"
)

// NormalizeStatus приводит устаревший статус "completed" к каноническому "done".
func NormalizeStatus(status string) string {
	if status == LegacyStatusCompleted {
		return StatusDone
	}
	return status
}

// QueueSettingsID — фиксированный идентификатор единственной строки настроек очереди.
const QueueSettingsID uint = 1

type AdminUser struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type Participant struct {
	gorm.Model
	TokenNumber uint   `gorm:"uniqueIndex;not null;default:nextval('participant_tokens')"` // Номер талона, выдаётся последовательностью БД
	Name        string `gorm:"not null"`
	RollNo      string `gorm:"uniqueIndex;not null"`     // Номер зачётки, уникален среди всех участников
	Status      string `gorm:"not null;default:waiting"` // waiting | done | skipped
}

// QueueSettings — единственная строка с ID=1: указатель текущего талона.
// CurrentToken == 0 означает, что очередь ещё не запущена.
type QueueSettings struct {
	ID           uint `gorm:"primaryKey"`
	CurrentToken int  `gorm:"not null;default:0"`
	UpdatedAt    time.Time
	UpdatedBy    *uint // ID администратора, изменившего указатель (только аудит)
}
