package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

// snapshotRowID единственная строка таблицы снапшотов
const snapshotRowID = 1

// Querier подмножество методов pgxpool.Pool, нужное для снапшотов
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotRepository сохраняет состояние хранилища в JSONB
type SnapshotRepository struct {
	q Querier
}

// NewSnapshotRepository создаёт репозиторий поверх пула или транзакции
func NewSnapshotRepository(q Querier) *SnapshotRepository {
	return &SnapshotRepository{q: q}
}

// EnsureSchema создаёт таблицу снапшотов, если её нет
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS skillsphere_snapshots (
			id       SMALLINT PRIMARY KEY,
			version  BIGINT NOT NULL,
			state    JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы снапшотов: %w", err)
	}
	return nil
}

// Save записывает снапшот, перезаписывая предыдущий
func (r *SnapshotRepository) Save(ctx context.Context, state store.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("ошибка сериализации состояния: %w", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO skillsphere_snapshots (id, version, state, saved_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET version = EXCLUDED.version, state = EXCLUDED.state, saved_at = EXCLUDED.saved_at
	`, snapshotRowID, int64(state.Version), raw)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении снапшота: %w", err)
	}
	return nil
}

// Load читает последний снапшот. found=false, если снапшота ещё нет.
func (r *SnapshotRepository) Load(ctx context.Context) (state store.State, found bool, err error) {
	var raw []byte
	err = r.q.QueryRow(ctx, `
		SELECT state FROM skillsphere_snapshots WHERE id = $1
	`, snapshotRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.State{}, false, nil
	}
	if err != nil {
		return store.State{}, false, fmt.Errorf("ошибка при чтении снапшота: %w", err)
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return store.State{}, false, fmt.Errorf("ошибка разбора снапшота: %w", err)
	}
	return state, true, nil
}

// Snapshotter периодически сохраняет изменившееся состояние
type Snapshotter struct {
	repo      *SnapshotRepository
	store     *store.Store
	interval  time.Duration
	lastSaved uint64
}

// NewSnapshotter создаёт фоновое сохранение. Версия на момент создания
// считается уже сохранённой.
func NewSnapshotter(repo *SnapshotRepository, st *store.Store, interval time.Duration) *Snapshotter {
	return &Snapshotter{
		repo:      repo,
		store:     st,
		interval:  interval,
		lastSaved: st.Version(),
	}
}

// Flush сохраняет состояние, если версия изменилась с прошлого сохранения
func (s *Snapshotter) Flush(ctx context.Context) (bool, error) {
	state := s.store.Snapshot()
	if state.Version == s.lastSaved {
		return false, nil
	}
	if err := s.repo.Save(ctx, state); err != nil {
		return false, err
	}
	s.lastSaved = state.Version
	return true, nil
}

// Run сохраняет снапшоты по таймеру до отмены ctx, затем делает финальное сохранение
func (s *Snapshotter) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			saveCtx, cancel := GetContext()
			if _, err := s.Flush(saveCtx); err != nil {
				log.Printf("Ошибка при сохранении снапшота: %v", err)
			}
			cancel()
		case <-ctx.Done():
			saveCtx, cancel := GetContext()
			if saved, err := s.Flush(saveCtx); err != nil {
				log.Printf("Ошибка при финальном сохранении снапшота: %v", err)
			} else if saved {
				log.Println("✅ Финальный снапшот состояния сохранён")
			}
			cancel()
			return
		}
	}
}
