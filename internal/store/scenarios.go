package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/cashcal/internal/model"
)

// createdLayout is fixed-width so created_at sorts lexically.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNameRequired is returned when a scenario is saved with a blank name.
var ErrNameRequired = errors.New("store: scenario name required")

// SaveScenario persists a named delay. The delay is clamped to the allowed
// range and the new record is returned with its id and creation time.
func (c *Cache) SaveScenario(name string, delayDays int) (model.SavedScenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SavedScenario{}, ErrNameRequired
	}

	s := model.SavedScenario{
		ID:        uuid.NewString(),
		Name:      name,
		DelayDays: model.ClampDelay(delayDays),
		CreatedAt: time.Now().UTC(),
	}
	_, err := c.db.Exec(`INSERT INTO scenarios (id, name, delay_days, created_at)
		VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.DelayDays, s.CreatedAt.Format(createdLayout),
	)
	if err != nil {
		return model.SavedScenario{}, fmt.Errorf("saving scenario: %w", err)
	}
	return s, nil
}

// ListScenarios returns saved scenarios, newest first.
func (c *Cache) ListScenarios() ([]model.SavedScenario, error) {
	rows, err := c.db.Query(`SELECT id, name, delay_days, created_at
		FROM scenarios ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.SavedScenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetScenario looks up one saved scenario by id.
func (c *Cache) GetScenario(id string) (model.SavedScenario, error) {
	row := c.db.QueryRow(`SELECT id, name, delay_days, created_at
		FROM scenarios WHERE id = ?`, id)
	s, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavedScenario{}, ErrNotFound
	}
	return s, err
}

// DeleteScenario removes a saved scenario.
func (c *Cache) DeleteScenario(id string) error {
	res, err := c.db.Exec("DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(r rowScanner) (model.SavedScenario, error) {
	var s model.SavedScenario
	var created string
	if err := r.Scan(&s.ID, &s.Name, &s.DelayDays, &created); err != nil {
		return model.SavedScenario{}, err
	}
	s.CreatedAt, _ = time.Parse(createdLayout, created)
	return s, nil
}
