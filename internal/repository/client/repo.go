// Package client persists clients as Redis hashes.
package client

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notably-app/notably/internal/domain"
	domclient "github.com/notably-app/notably/internal/domain/client"
)

// store is the consumer interface for clients (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the client repository over a hash store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a client repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save creates or replaces a client.
func (r *Repo) Save(ctx context.Context, c *domclient.Client) error {
	fields := map[string]string{
		"owner":      c.OwnerID,
		"name":       c.Name,
		"company":    c.Company,
		"email":      c.Email,
		"phone":      c.Phone,
		"created_at": strconv.FormatInt(c.CreatedAt, 10),
	}
	if err := r.store.HSet(ctx, r.key(c.ID), fields); err != nil {
		return fmt.Errorf("hset client %s: %w", c.ID, err)
	}
	return nil
}

// Get returns a client by id, scoped to the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domclient.Client, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domclient.Client{}, fmt.Errorf("hgetall client %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domclient.Client{}, domain.ErrClientNotFound
	}
	return parse(id, m), nil
}

// ListByOwner returns the owner's clients newest-first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domclient.Client, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan clients: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}

	clients := make([]domclient.Client, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID {
			continue
		}
		clients = append(clients, parse(strings.TrimPrefix(keys[i], r.key("")), m))
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].CreatedAt > clients[j].CreatedAt
	})
	return clients, nil
}

// Delete removes a client, scoped to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("hgetall client %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domain.ErrClientNotFound
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del client %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "client:" + id
}

func parse(id string, m map[string]string) domclient.Client {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domclient.Client{
		ID:        id,
		OwnerID:   m["owner"],
		Name:      m["name"],
		Company:   m["company"],
		Email:     m["email"],
		Phone:     m["phone"],
		CreatedAt: createdAt,
	}
}
