package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"woof-coffee/db"
	"woof-coffee/models"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
)

// Cart holds at most one line per item, in the order items were first added.
// A line never has quantity 0; setting it to 0 removes the line.
type Cart struct {
	lines []models.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// CartFromLines builds a cart by replaying lines through SetQuantity/Add, so
// duplicate ids merge and non-positive quantities are dropped.
func CartFromLines(lines []models.CartLine) *Cart {
	c := NewCart()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		c.SetQuantity(l.ItemID, c.Quantity(l.ItemID)+l.Quantity)
	}
	return c
}

func (c *Cart) index(itemID int64) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Add puts one more of itemID in the cart.
func (c *Cart) Add(itemID int64) {
	if i := c.index(itemID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{ItemID: itemID, Quantity: 1})
}

// SetQuantity sets the quantity of itemID; qty <= 0 removes the line.
func (c *Cart) SetQuantity(itemID int64, qty int) {
	if qty <= 0 {
		c.Remove(itemID)
		return
	}
	if i := c.index(itemID); i >= 0 {
		c.lines[i].Quantity = qty
		return
	}
	c.lines = append(c.lines, models.CartLine{ItemID: itemID, Quantity: qty})
}

func (c *Cart) Remove(itemID int64) {
	if i := c.index(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Quantity(itemID int64) int {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Lines())
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	var lines []models.CartLine
	if err := json.Unmarshal(b, &lines); err != nil {
		return err
	}
	*c = *CartFromLines(lines)
	return nil
}

// CartStore keeps one cart per customer. A customer without a stored cart
// reads as an empty cart.
type CartStore interface {
	Get(ctx context.Context, customerID int64) (*Cart, error)
	Save(ctx context.Context, customerID int64, cart *Cart) error
	Delete(ctx context.Context, customerID int64) error
}

// MemoryCartStore keeps carts for the lifetime of the process.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[int64][]models.CartLine
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[int64][]models.CartLine)}
}

func (s *MemoryCartStore) Get(_ context.Context, customerID int64) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartFromLines(s.carts[customerID]), nil
}

func (s *MemoryCartStore) Save(_ context.Context, customerID int64, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart == nil || cart.IsEmpty() {
		delete(s.carts, customerID)
		return nil
	}
	s.carts[customerID] = cart.Lines()
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}

// PostgresCartStore keeps carts in the carts table as a JSON line list.
type PostgresCartStore struct{}

func (PostgresCartStore) Get(ctx context.Context, customerID int64) (*Cart, error) {
	var linesJSON []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT lines FROM carts WHERE customer_id = $1`,
		customerID,
	).Scan(&linesJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart := NewCart()
	if len(linesJSON) > 0 {
		if err := json.Unmarshal(linesJSON, cart); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cart lines: %w", err)
		}
	}
	return cart, nil
}

func (s PostgresCartStore) Save(ctx context.Context, customerID int64, cart *Cart) error {
	if cart == nil || cart.IsEmpty() {
		return s.Delete(ctx, customerID)
	}
	linesJSON, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart lines: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO carts (customer_id, lines, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (customer_id) DO UPDATE SET
			lines = $2,
			updated_at = now()`,
		customerID, linesJSON,
	)
	return err
}

func (PostgresCartStore) Delete(ctx context.Context, customerID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM carts WHERE customer_id = $1`, customerID)
	return err
}

// RedisCartStore keeps each cart as a JSON string under {prefix}:cart:{id}.
// Carts expire after TTL without writes.
type RedisCartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCartStore {
	if prefix == "" {
		prefix = "woofcoffee"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCartStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisCartStore) key(customerID int64) string {
	return fmt.Sprintf("%s:cart:%d", s.prefix, customerID)
}

func (s *RedisCartStore) Get(ctx context.Context, customerID int64) (*Cart, error) {
	data, err := s.client.Get(ctx, s.key(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	cart := NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart lines: %w", err)
	}
	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, customerID int64, cart *Cart) error {
	if cart == nil || cart.IsEmpty() {
		return s.Delete(ctx, customerID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart lines: %w", err)
	}
	return s.client.Set(ctx, s.key(customerID), data, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, customerID int64) error {
	return s.client.Del(ctx, s.key(customerID)).Err()
}
