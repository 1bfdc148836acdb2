package client

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestTrackerResolveReplacesTempRecord(t *testing.T) {
	tracker := NewTracker()

	tempID := tracker.Add("новое сообщение")

	items := tracker.Items()
	if len(items) != 1 || !items[0].Pending {
		t.Fatalf("оптимистическая запись не применена: %+v", items)
	}

	confirmedID := uuid.New()
	if !tracker.Resolve(context.Background(), tempID, confirmedID, "новое сообщение") {
		t.Fatal("Resolve() = false")
	}

	items = tracker.Items()
	if items[0].ID != confirmedID {
		t.Errorf("ID записи %v, ожидался подтвержденный %v", items[0].ID, confirmedID)
	}
	if items[0].Pending {
		t.Error("запись осталась в состоянии pending после подтверждения")
	}
}

// После неудачной мутации состояние равно состоянию до нее, включая черновик
func TestTrackerRollbackRestoresState(t *testing.T) {
	tracker := NewTracker()

	existingID := uuid.New()
	first := tracker.Add("уже сохраненная запись")
	tracker.Resolve(context.Background(), first, existingID, "уже сохраненная запись")

	tracker.SetDraft("текст нового сообщения")

	tempID := tracker.Add("текст нового сообщения")

	// Черновик очищен оптимистично
	if tracker.Draft() != "" {
		t.Errorf("черновик не очищен: %q", tracker.Draft())
	}

	tracker.Rollback(tempID)

	items := tracker.Items()
	if len(items) != 1 || items[0].ID != existingID {
		t.Errorf("состояние после отката: %+v", items)
	}

	// Пользователь не теряет набранный текст
	if tracker.Draft() != "текст нового сообщения" {
		t.Errorf("черновик не восстановлен: %q", tracker.Draft())
	}
}

func TestTrackerRollbackRemove(t *testing.T) {
	tracker := NewTracker()

	id := uuid.New()
	first := tracker.Add("в избранном")
	tracker.Resolve(context.Background(), first, id, "в избранном")

	token := tracker.Remove(id)
	if len(tracker.Items()) != 0 {
		t.Fatal("запись не удалена оптимистично")
	}

	// Сервер отклонил удаление: запись возвращается
	tracker.Rollback(token)

	items := tracker.Items()
	if len(items) != 1 || items[0].ID != id {
		t.Errorf("состояние после отката удаления: %+v", items)
	}
}

// Флаг загрузки гаснет и при успехе, и при откате
func TestTrackerLoadingAlwaysClears(t *testing.T) {
	tracker := NewTracker()

	tempID := tracker.Add("запись")
	if !tracker.Loading() {
		t.Fatal("флаг загрузки не установлен")
	}

	tracker.Resolve(context.Background(), tempID, uuid.New(), "запись")
	if tracker.Loading() {
		t.Error("флаг загрузки не сброшен после подтверждения")
	}

	tempID = tracker.Add("вторая запись")
	tracker.Rollback(tempID)
	if tracker.Loading() {
		t.Error("флаг загрузки не сброшен после отката")
	}
}

// Ответ, пришедший после ухода со страницы, отбрасывается
func TestTrackerResolveCancelledContext(t *testing.T) {
	tracker := NewTracker()

	tempID := tracker.Add("запись")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if tracker.Resolve(ctx, tempID, uuid.New(), "запись") {
		t.Error("Resolve() с отмененным контекстом должен вернуть false")
	}

	// Запись остается временной, но мутация завершена
	if tracker.Loading() {
		t.Error("флаг загрузки не сброшен после отмены")
	}
}

// Откат одной мутации не трогает параллельные: отмененное добавление
// убирает только свою запись, вторая дожидается подтверждения
func TestTrackerRollbackKeepsConcurrentMutations(t *testing.T) {
	tracker := NewTracker()

	first := tracker.Add("первая")
	second := tracker.Add("вторая")

	tracker.Rollback(first)

	confirmedID := uuid.New()
	if !tracker.Resolve(context.Background(), second, confirmedID, "вторая") {
		t.Fatal("Resolve() = false для незатронутой откатом мутации")
	}

	items := tracker.Items()
	if len(items) != 1 {
		t.Fatalf("записей после отката и подтверждения: %d, ожидалась 1", len(items))
	}
	if items[0].ID != confirmedID {
		t.Errorf("ID записи %v, ожидался подтвержденный %v", items[0].ID, confirmedID)
	}
	if items[0].Pending {
		t.Error("запись осталась в состоянии pending после подтверждения")
	}
}

// Откат отмены удаления возвращает запись на прежнюю позицию списка
func TestTrackerRollbackRemoveKeepsOrder(t *testing.T) {
	tracker := NewTracker()

	ids := make([]uuid.UUID, 3)
	for i, v := range []string{"первая", "вторая", "третья"} {
		ids[i] = uuid.New()
		token := tracker.Add(v)
		tracker.Resolve(context.Background(), token, ids[i], v)
	}

	token := tracker.Remove(ids[1])
	tracker.Rollback(token)

	items := tracker.Items()
	if len(items) != 3 {
		t.Fatalf("записей после отката: %d, ожидалось 3", len(items))
	}
	for i, id := range ids {
		if items[i].ID != id {
			t.Errorf("позиция %d: ID %v, ожидался %v", i, items[i].ID, id)
		}
	}
}

func TestTrackerConcurrentMutationsLoading(t *testing.T) {
	tracker := NewTracker()

	first := tracker.Add("первая")
	second := tracker.Add("вторая")

	tracker.Resolve(context.Background(), first, uuid.New(), "первая")

	// Вторая мутация еще в полете
	if !tracker.Loading() {
		t.Error("флаг загрузки сброшен при незавершенной мутации")
	}

	tracker.Rollback(second)
	if tracker.Loading() {
		t.Error("флаг загрузки не сброшен после завершения всех мутаций")
	}
}
