package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"Loadsheet/internal/aircraft"
)

// Memory is an in-process repository used when no database is configured.
type Memory struct {
	mu     sync.Mutex
	users  map[string]memUser
	specs  *aircraft.Static
	calcs  []Calculation
	nextID int64
}

type memUser struct {
	id       int
	email    string
	password string
}

func NewMemory() *Memory {
	return &Memory{users: map[string]memUser{}, specs: aircraft.NewStatic()}
}

func (m *Memory) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, fmt.Errorf("user %s already exists", login)
	}
	id := len(m.users) + 1
	m.users[login] = memUser{id: id, email: email, password: password}
	return id, nil
}

func (m *Memory) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.password, nil
}

func (m *Memory) SaveSpec(_ context.Context, s aircraft.Spec) error {
	m.specs.Put(s)
	return nil
}

func (m *Memory) Spec(ctx context.Context, name string) (aircraft.Spec, error) {
	return m.specs.Spec(ctx, name)
}

func (m *Memory) Names(ctx context.Context) ([]string, error) {
	return m.specs.Names(ctx)
}

func (m *Memory) RecordCalculation(_ context.Context, c Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	m.calcs = append(m.calcs, c)
	return nil
}

func (m *Memory) Calculations(_ context.Context, userID, limit int) ([]Calculation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Calculation{}
	for _, c := range m.calcs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
