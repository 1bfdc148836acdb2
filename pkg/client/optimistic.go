package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker реализует оптимистические обновления локального состояния:
// запись применяется сразу с временным ID, а после ответа сервера либо
// заменяется подтвержденной, либо откатывается. Для каждой мутации в
// pending хранится обратная операция, поэтому откат одной мутации не
// затрагивает параллельные: отмена добавления убирает только свою
// временную запись и возвращает очищенный черновик, отмена удаления
// возвращает удаленную запись на прежнее место.
type Tracker struct {
	mu      sync.Mutex
	items   []Item
	pending map[uuid.UUID]pendingOp
	loading bool
	draft   string
}

// Item представляет запись локального состояния
type Item struct {
	ID        uuid.UUID
	Value     interface{}
	Pending   bool
	CreatedAt time.Time
}

type opKind int

const (
	opAdd opKind = iota
	opRemove
)

// pendingOp хранит данные для отката одной мутации
type pendingOp struct {
	kind opKind

	// id временной записи для opAdd, удаленной записи для opRemove
	id uuid.UUID

	// удаленная запись и ее позиция для opRemove
	removed Item
	index   int

	// черновик до мутации для opAdd
	draft string
}

// NewTracker создает новый трекер оптимистических обновлений
func NewTracker() *Tracker {
	return &Tracker{
		pending: make(map[uuid.UUID]pendingOp),
	}
}

// Items возвращает копию текущего состояния
func (t *Tracker) Items() []Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := make([]Item, len(t.items))
	copy(items, t.items)
	return items
}

// Loading возвращает true, пока есть незавершенные мутации
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Draft возвращает текущий черновик ввода
func (t *Tracker) Draft() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draft
}

// SetDraft сохраняет черновик ввода
func (t *Tracker) SetDraft(draft string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = draft
}

// Add применяет новую запись оптимистически и возвращает временный ID —
// корреляционный токен для Resolve или Rollback. Черновик ввода очищается
// сразу, но восстанавливается при откате.
func (t *Tracker) Add(value interface{}) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	tempID := uuid.New()
	t.pending[tempID] = pendingOp{kind: opAdd, id: tempID, draft: t.draft}
	t.items = append(t.items, Item{
		ID:        tempID,
		Value:     value,
		Pending:   true,
		CreatedAt: time.Now(),
	})
	t.draft = ""
	t.loading = true
	return tempID
}

// Remove удаляет запись оптимистически и возвращает корреляционный токен
func (t *Tracker) Remove(id uuid.UUID) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	token := uuid.New()
	op := pendingOp{kind: opRemove, id: id, index: -1}

	for i, item := range t.items {
		if item.ID == id {
			op.removed = item
			op.index = i
			t.items = append(t.items[:i], t.items[i+1:]...)
			break
		}
	}

	t.pending[token] = op
	t.loading = true
	return token
}

// Resolve заменяет временную запись подтвержденной сервером. Если контекст
// уже отменен (пользователь ушел со страницы), ответ отбрасывается, чтобы
// не применить его к устаревшему состоянию. При гонке мутаций одной записи
// побеждает последний ответ сервера.
func (t *Tracker) Resolve(ctx context.Context, token uuid.UUID, confirmedID uuid.UUID, value interface{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.settle(token)

	if ctx.Err() != nil {
		return false
	}

	op, ok := t.pending[token]
	if !ok {
		return false
	}

	// Подтвержденное удаление менять в состоянии нечего
	if op.kind == opRemove {
		return true
	}

	for i := range t.items {
		if t.items[i].ID == op.id {
			t.items[i].ID = confirmedID
			t.items[i].Value = value
			t.items[i].Pending = false
			return true
		}
	}

	// Временную запись успела убрать более поздняя мутация — ее исход главнее
	return false
}

// Rollback откатывает одну оптимистическую мутацию обратной операцией:
// добавленная запись убирается и черновик восстанавливается, удаленная
// запись возвращается на прежнюю позицию. Остальные мутации, в том числе
// примененные после этой, остаются в силе.
func (t *Tracker) Rollback(token uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer t.settle(token)

	op, ok := t.pending[token]
	if !ok {
		return
	}

	switch op.kind {
	case opAdd:
		for i := range t.items {
			if t.items[i].ID == op.id {
				t.items = append(t.items[:i], t.items[i+1:]...)
				break
			}
		}
		t.draft = op.draft

	case opRemove:
		if op.index < 0 {
			return
		}
		idx := op.index
		if idx > len(t.items) {
			idx = len(t.items)
		}
		t.items = append(t.items[:idx], append([]Item{op.removed}, t.items[idx:]...)...)
	}
}

// settle завершает мутацию и сбрасывает флаг загрузки, когда незавершенных
// мутаций не осталось. Вызывается под мьютексом через defer, поэтому флаг
// гаснет и при успехе, и при откате.
func (t *Tracker) settle(token uuid.UUID) {
	delete(t.pending, token)
	if len(t.pending) == 0 {
		t.loading = false
	}
}
