package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ClientCookieName = "postboard_client"

// RedisStorage guarda la sesión en Redis bajo <prefix>:<clientID>:<key>; el
// navegador sólo conserva el clientID.
type RedisStorage struct {
	client   redis.UniversalClient
	prefix   string
	clientID string
	ttl      time.Duration
}

func NewRedisStorage(client redis.UniversalClient, prefix, clientID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, clientID: clientID, ttl: ttl}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + ":" + s.clientID + ":" + k
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStorage) Put(ctx context.Context, entries map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}

// ClientID devuelve el identificador del navegador y lo emite si todavía no
// existe o no es un UUID válido.
func ClientID(r *http.Request, w http.ResponseWriter, maxAge time.Duration, secure bool) string {
	if c, err := r.Cookie(ClientCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// NewRedisClient abre la conexión y comprueba que responde.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
