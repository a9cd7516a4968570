package toast

import (
	"log"
	"sync"
	"time"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
)

// DefaultBufferSize сколько toast хранится на пользователя до выборки
const DefaultBufferSize = 32

// Manager хранит очереди кратковременных уведомлений по пользователям.
// Клиент забирает их запросом, после выборки очередь очищается.
type Manager struct {
	queues     map[string][]models.Toast // userID -> очередь
	mu         sync.Mutex
	bufferSize int
	now        func() time.Time
}

// NewManager создает новый экземпляр Manager
func NewManager(bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Manager{
		queues:     make(map[string][]models.Toast),
		bufferSize: bufferSize,
		now:        time.Now,
	}
}

// Notify ставит toast в очередь пользователя
func (m *Manager) Notify(userID string, t models.Toast) {
	if userID == "" {
		return
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	q := append(m.queues[userID], t)
	if len(q) > m.bufferSize {
		// Клиент давно не забирал уведомления - отбрасываем самые старые
		dropped := len(q) - m.bufferSize
		log.Printf("Очередь toast пользователя %s переполнена, отброшено %d", userID, dropped)
		q = q[dropped:]
	}
	m.queues[userID] = q
}

// Drain возвращает и очищает очередь пользователя
func (m *Manager) Drain(userID string) []models.Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queues[userID]
	delete(m.queues, userID)
	if q == nil {
		return []models.Toast{}
	}
	return q
}

// Pending количество ожидающих toast пользователя
func (m *Manager) Pending(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[userID])
}

// Shutdown очищает все очереди
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.queues = make(map[string][]models.Toast)
	m.mu.Unlock()
}
