// Package store persists encoded puzzle files in redis.  Each puzzle is
// stored as its raw binary encoding under a key derived from its id, and an
// index key tracks the set of ids so the archive can be listed.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gomodule/redigo/redis"
)

// ErrNotFound is returned when no puzzle is stored under the requested id.
var ErrNotFound = errors.New("store: puzzle not found")

// A connection that can perform operations against a database.
type Connection interface {
	Do(command string, args ...interface{}) (interface{}, error)
}

// PuzzleTTL is how long an uploaded puzzle lives before expiring.  Zero
// means puzzles are kept forever.
var PuzzleTTL = 30 * 24 * time.Hour

// Key returns the key that a puzzle's encoded bytes are stored under.
func Key(id string) string {
	return fmt.Sprintf("puzzle:%s:file", id)
}

// IndexKey is the set of stored puzzle ids.
const IndexKey = "puzzles"

// Put writes a puzzle's encoded bytes under the provided id and adds the id
// to the archive index.
func Put(c Connection, id string, bs []byte) error {
	if len(bs) == 0 {
		return errors.New("store: refusing to store an empty puzzle")
	}

	var err error
	if PuzzleTTL > 0 {
		_, err = c.Do("SETEX", Key(id), int64(PuzzleTTL.Seconds()), bs)
	} else {
		_, err = c.Do("SET", Key(id), bs)
	}
	if err != nil {
		return err
	}

	_, err = c.Do("SADD", IndexKey, id)
	return err
}

// Get loads the encoded bytes of the puzzle stored under id.  ErrNotFound is
// returned when the id isn't present, which also covers puzzles that have
// expired out from under the index.
func Get(c Connection, id string) ([]byte, error) {
	bs, err := redis.Bytes(c.Do("GET", Key(id)))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return bs, nil
}

// Remove deletes a stored puzzle and drops its id from the index.  Removing
// an id that isn't present is not an error.
func Remove(c Connection, id string) error {
	if _, err := c.Do("DEL", Key(id)); err != nil {
		return err
	}

	_, err := c.Do("SREM", IndexKey, id)
	return err
}

// IDs returns the ids of every stored puzzle in sorted order.  Ids whose
// puzzle has expired are swept out of the index as a side effect.
func IDs(c Connection) ([]string, error) {
	ids, err := redis.Strings(c.Do("SMEMBERS", IndexKey))
	if err != nil {
		return nil, err
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := redis.Int(c.Do("EXISTS", Key(id)))
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			if _, err := c.Do("SREM", IndexKey, id); err != nil {
				return nil, err
			}
			continue
		}

		live = append(live, id)
	}

	sort.Strings(live)
	return live, nil
}
