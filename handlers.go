package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
	"github.com/rs/xid"

	"github.com/apelman/acrossdown/pubsub"
	"github.com/apelman/acrossdown/puz"
	"github.com/apelman/acrossdown/store"
)

// The largest upload we're willing to parse.  Real puzzle files are a few
// kilobytes; anything approaching this limit isn't one.
const maxUploadBytes = 1 << 20

// PuzzleMetadata is the client facing summary of a stored puzzle.
type PuzzleMetadata struct {
	ID        string `json:"id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Copyright string `json:"copyright"`
	Notes     string `json:"notes,omitempty"`
	ClueCount int    `json:"clue_count"`
	HasRebus  bool   `json:"has_rebus"`
	HasTimer  bool   `json:"has_timer"`
	Locked    bool   `json:"locked"`
	Checksums int    `json:"checksum_errors"`
}

func metadata(id string, p *puz.Puzzle) PuzzleMetadata {
	return PuzzleMetadata{
		ID:        id,
		Width:     p.Width(),
		Height:    p.Height(),
		Title:     p.DecodedTitle(),
		Author:    p.DecodedAuthor(),
		Copyright: p.DecodedCopyright(),
		Notes:     p.DecodedNotes(),
		ClueCount: p.ClueCount(),
		HasRebus:  p.HasRebus(),
		HasTimer:  p.HasTimer(),
		Locked:    p.Locked(),
		Checksums: p.Verify(),
	}
}

// UploadPuzzle accepts a puzzle file (binary or the text authoring format),
// verifies it, stores its binary encoding, and announces it.  Text uploads
// are converted to binary, so everything in the archive is served the same
// way.
func UploadPuzzle(pool *redis.Pool, registry *pubsub.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		bs, err := ioutil.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
		if err != nil {
			err = fmt.Errorf("unable to read uploaded file: %+v", err)
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}

		puzzle, err := puz.Parse(bs, puz.FormatAuto)
		if err != nil {
			err = fmt.Errorf("unable to parse uploaded file: %+v", err)
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}

		encoded, err := puzzle.EncodeBinary()
		if err != nil {
			err = fmt.Errorf("unable to encode uploaded puzzle: %+v", err)
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}

		conn := pool.Get()
		defer func() { _ = conn.Close() }()

		id := xid.New().String()
		if err := store.Put(conn, id, encoded); err != nil {
			err = fmt.Errorf("unable to store puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		meta := metadata(id, puzzle)
		registry.Publish(pubsub.Event{Kind: "uploaded", Payload: meta})

		c.JSON(http.StatusCreated, meta)
	}
}

// ListPuzzles returns the ids of every stored puzzle.
func ListPuzzles(pool *redis.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn := pool.Get()
		defer func() { _ = conn.Close() }()

		ids, err := store.IDs(conn)
		if err != nil {
			err = fmt.Errorf("unable to list puzzles: %+v", err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"puzzles": ids})
	}
}

// GetPuzzle returns the metadata of a stored puzzle.
func GetPuzzle(pool *redis.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		conn := pool.Get()
		defer func() { _ = conn.Close() }()

		puzzle, err := loadPuzzle(conn, id)
		if errors.Is(err, store.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			err = fmt.Errorf("unable to load puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, metadata(id, puzzle))
	}
}

// GetPuzzleFile returns the binary encoding of a stored puzzle.
func GetPuzzleFile(pool *redis.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		conn := pool.Get()
		defer func() { _ = conn.Close() }()

		bs, err := store.Get(conn, id)
		if errors.Is(err, store.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			err = fmt.Errorf("unable to load puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		c.Data(http.StatusOK, "application/x-crossword", bs)
	}
}

// UnlockPuzzle unscrambles a stored puzzle's solution.  The request may
// carry a four digit key; without one the key is brute forced.  On success
// the unlocked puzzle replaces the stored one and the recovered key is
// returned.
func UnlockPuzzle(pool *redis.Pool, registry *pubsub.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var request struct {
			Key int `json:"key"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&request); err != nil {
				err = fmt.Errorf("unable to parse unlock request: %+v", err)
				_ = c.AbortWithError(http.StatusBadRequest, err)
				return
			}
		}

		conn := pool.Get()
		defer func() { _ = conn.Close() }()

		puzzle, err := loadPuzzle(conn, id)
		if errors.Is(err, store.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			err = fmt.Errorf("unable to load puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		key := request.Key
		if key != 0 {
			err = puzzle.Unscramble(key)
		} else {
			key, err = puzzle.BruteForceUnlock()
		}

		switch {
		case err == nil:
			// fall through to saving below

		case errors.Is(err, puz.ErrNotScrambled),
			errors.Is(err, puz.ErrBadKey),
			errors.Is(err, puz.ErrWrongKey),
			errors.Is(err, puz.ErrKeyNotFound):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return

		default:
			err = fmt.Errorf("unable to unlock puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		// The solution changed, so the checksums have to be recommitted
		// before the puzzle is written back.
		puzzle.Commit()

		encoded, err := puzzle.EncodeBinary()
		if err != nil {
			err = fmt.Errorf("unable to encode unlocked puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		if err := store.Put(conn, id, encoded); err != nil {
			err = fmt.Errorf("unable to store unlocked puzzle %s: %+v", id, err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}

		registry.Publish(pubsub.Event{
			Kind:    "unlocked",
			Payload: gin.H{"id": id, "key": key},
		})

		c.JSON(http.StatusOK, gin.H{"id": id, "key": key})
	}
}

// PuzzleEventsHandler establishes a server sent event stream with a client
// and forwards archive events to it until the client disconnects.
func PuzzleEventsHandler(registry *pubsub.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		stream := make(chan pubsub.Event, 10)
		defer close(stream)

		id, err := registry.Subscribe(stream)
		if err != nil {
			err = fmt.Errorf("unable to subscribe event stream: %+v", err)
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		defer registry.Unsubscribe(id)

		c.Header("Cache-Control", "no-transform")
		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-stream:
				if !ok {
					return false
				}
				c.SSEvent("message", msg)
				return true

			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}

// loadPuzzle reads a stored puzzle's bytes and decodes them.
func loadPuzzle(c store.Connection, id string) (*puz.Puzzle, error) {
	bs, err := store.Get(c, id)
	if err != nil {
		return nil, err
	}

	return puz.ParseBinary(bs)
}
