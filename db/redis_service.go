package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"studentcp-server-go/models"
)

const (
	deletedStudentsKey = "students:deleted" // List: JSON-encoded deleted students, newest at the head
)

// RedisTrash is a Trash backed by a capped Redis list, so undo history
// survives a restart and is shared between server instances.
type RedisTrash struct {
	Client *redis.Client
	size   int64
}

var _ Trash = (*RedisTrash)(nil)

// NewRedisTrash keeps at most size students; size <= 0 means 1.
func NewRedisTrash(client *redis.Client, size int) *RedisTrash {
	if size <= 0 {
		size = 1
	}
	return &RedisTrash{Client: client, size: int64(size)}
}

// Push stores students at the head of the list and trims the tail.
func (t *RedisTrash) Push(ctx context.Context, students ...models.Student) error {
	if len(students) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(students))
	for _, st := range students {
		data, err := json.Marshal(st)
		if err != nil {
			return errors.Wrapf(err, "encoding student %d", st.PRN)
		}
		values = append(values, data)
	}

	pipe := t.Client.TxPipeline()
	pipe.LPush(ctx, deletedStudentsKey, values...)
	pipe.LTrim(ctx, deletedStudentsKey, 0, t.size-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "pushing to redis trash")
	}
	return nil
}

// Pop removes and returns the most recently deleted student.
func (t *RedisTrash) Pop(ctx context.Context) (models.Student, error) {
	data, err := t.Client.LPop(ctx, deletedStudentsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Student{}, ErrTrashEmpty
		}
		return models.Student{}, errors.Wrap(err, "popping from redis trash")
	}

	var st models.Student
	if err := json.Unmarshal(data, &st); err != nil {
		return models.Student{}, errors.Wrap(err, "decoding deleted student")
	}
	return st, nil
}

// InitializeRedisClient creates a client and checks the connection.
func InitializeRedisClient(ctx context.Context, addr, password string, database int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return rdb, nil
}
