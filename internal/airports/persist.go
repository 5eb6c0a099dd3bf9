package airports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyscout/skyscout/internal/models"
)

// State is the durable slice of the directory: the lookup cache snapshot
// plus the seed airport list.
type State struct {
	Entries  []Entry                  `json:"entries"`
	Defaults []models.AirportLocation `json:"defaults"`
	Fetched  bool                     `json:"fetched"`
}

// Persister saves and restores directory state across restarts.
type Persister interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state State) error
	Close() error
}

const stateKey = "skyscout:airports"

type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  30 * 24 * time.Hour,
	}
}

func NewRedisPersister(cfg RedisConfig) (*RedisPersister, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPersister{client: client, ttl: cfg.TTL}, nil
}

func (p *RedisPersister) Load(ctx context.Context) (State, bool, error) {
	data, err := p.client.Get(ctx, stateKey).Bytes()
	if err == redis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, err
	}
	return state, true, nil
}

func (p *RedisPersister) Save(ctx context.Context, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, stateKey, data, p.ttl).Err()
}

func (p *RedisPersister) Close() error {
	return p.client.Close()
}

// NoopPersister is used when Redis is disabled; the directory then lives
// only in memory.
type NoopPersister struct{}

func NewNoopPersister() *NoopPersister {
	return &NoopPersister{}
}

func (*NoopPersister) Load(ctx context.Context) (State, bool, error) {
	return State{}, false, nil
}

func (*NoopPersister) Save(ctx context.Context, state State) error {
	return nil
}

func (*NoopPersister) Close() error {
	return nil
}

// RestoreDirectory applies persisted state to a directory.
func RestoreDirectory(d *Directory, state State) {
	d.Cache.Restore(state.Entries)
	if state.Fetched {
		d.SetDefaults(state.Defaults)
	}
}

// SnapshotDirectory captures the durable slice of a directory.
func SnapshotDirectory(d *Directory) State {
	defaults, fetched := d.Defaults()
	return State{
		Entries:  d.Cache.Snapshot(),
		Defaults: defaults,
		Fetched:  fetched,
	}
}
