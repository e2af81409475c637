package clients

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	_ "github.com/mahesh-atx/capro/testing"
)

type memRepo struct {
	clients map[uuid.UUID]Client
	err     error
}

func newMemRepo() *memRepo {
	return &memRepo{clients: map[uuid.UUID]Client{}}
}

func (m *memRepo) List(_ context.Context) ([]Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (m *memRepo) Create(_ context.Context, c Client) (Client, error) {
	m.clients[c.ID] = c
	return c, nil
}

func (m *memRepo) Update(_ context.Context, c Client) (Client, error) {
	if _, ok := m.clients[c.ID]; !ok {
		return Client{}, ErrNotFound
	}
	m.clients[c.ID] = c
	return c, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func TestCreateNormalisesInput(t *testing.T) {
	svc := NewService(newMemRepo())

	c, err := svc.Create(context.Background(), Input{
		Name:      "  ABC Industries Pvt Ltd ",
		GSTIN:     " 27aabcu9603r1zm ",
		StateCode: " 27 ",
		Address:   " Plot 14, MIDC, Pune ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "ABC Industries Pvt Ltd" {
		t.Fatalf("name not trimmed: %q", c.Name)
	}
	if c.GSTIN != "27AABCU9603R1ZM" {
		t.Fatalf("gstin not upper-cased: %q", c.GSTIN)
	}
	if c.StateCode != "27" || c.Address != "Plot 14, MIDC, Pune" {
		t.Fatalf("unexpected client: %+v", c)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), Input{Name: "XYZ Traders"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), c.ID, Input{Name: "XYZ Traders LLP", GSTIN: "24xacfp1234q1z5"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != c.ID {
		t.Fatal("update changed the client id")
	}
	if updated.Name != "XYZ Traders LLP" || updated.GSTIN != "24XACFP1234Q1Z5" {
		t.Fatalf("unexpected update: %+v", updated)
	}
}

func TestUpdateUnknownClient(t *testing.T) {
	svc := NewService(newMemRepo())
	if _, err := svc.Update(context.Background(), uuid.New(), Input{Name: "Ghost"}); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), Input{Name: "Short Lived"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), c.ID); err != ErrNotFound {
		t.Fatalf("client survived delete: %v", err)
	}
}
