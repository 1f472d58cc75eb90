// Package queue содержит чистые вычисления производного состояния очереди
// по полному снимку участников и строке настроек: кто вызван сейчас, кто
// следующий, сколько человек ожидает. Состояния "current/next" нигде не
// хранятся, они каждый раз выводятся заново.
package queue

import "metapool/internal/models"

// State — производное состояние очереди для отображения.
type State struct {
	Current      *models.Participant
	Next         *models.Participant
	WaitingCount int
	NeedsStart   bool
	Total        int
}

// Current возвращает участника, чей номер талона равен текущему указателю.
// При current_token == 0 или отсутствии такого талона возвращает nil —
// номера могут быть разреженными после пропусков, это не ошибка.
func Current(participants []models.Participant, settings models.QueueSettings) *models.Participant {
	if settings.CurrentToken <= 0 {
		return nil
	}
	for i := range participants {
		if int(participants[i].TokenNumber) == settings.CurrentToken {
			return &participants[i]
		}
	}
	return nil
}

// Next возвращает ожидающего участника с минимальным номером талона,
// большим текущего указателя.
func Next(participants []models.Participant, settings models.QueueSettings) *models.Participant {
	var next *models.Participant
	for i := range participants {
		p := &participants[i]
		if int(p.TokenNumber) <= settings.CurrentToken {
			continue
		}
		if models.NormalizeStatus(p.Status) != models.StatusWaiting {
			continue
		}
		if next == nil || p.TokenNumber < next.TokenNumber {
			next = p
		}
	}
	return next
}

// WaitingCount — число ожидающих участников с номером талона больше текущего.
func WaitingCount(participants []models.Participant, settings models.QueueSettings) int {
	count := 0
	for i := range participants {
		p := &participants[i]
		if int(p.TokenNumber) > settings.CurrentToken &&
			models.NormalizeStatus(p.Status) == models.StatusWaiting {
			count++
		}
	}
	return count
}

// NeedsStart — очередь ещё не запущена, но ожидающие уже зарегистрированы.
func NeedsStart(participants []models.Participant, settings models.QueueSettings) bool {
	return settings.CurrentToken == 0 && WaitingCount(participants, settings) > 0
}

// Derive собирает полное производное состояние по одному снимку.
func Derive(participants []models.Participant, settings models.QueueSettings) State {
	return State{
		Current:      Current(participants, settings),
		Next:         Next(participants, settings),
		WaitingCount: WaitingCount(participants, settings),
		NeedsStart:   NeedsStart(participants, settings),
		Total:        len(participants),
	}
}
