// Package articles obtiene la colección remota de artículos.
package articles

import (
	"context"
	"errors"
)

type Article struct {
	ID       int    `json:"id"`
	AuthorID int    `json:"userId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

var (
	ErrFetchFailed = errors.New("fetch failed")
	ErrNotFound    = errors.New("article not found")
)

// Source es una fuente remota de artículos. Cada llamada respeta ctx.
type Source interface {
	List(ctx context.Context) ([]Article, error)
	Get(ctx context.Context, id int) (*Article, error)
}
