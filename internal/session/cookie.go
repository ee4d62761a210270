package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const CookieName = "postboard_session"

// NewCookieStore firma (no cifra) la cookie; sólo guarda el flag y el email.
func NewCookieStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CookieStorage guarda la sesión en una cookie del navegador, ligada a una
// petición y su respuesta.
type CookieStorage struct {
	store sessions.Store
	name  string
	r     *http.Request
	w     http.ResponseWriter
}

func NewCookieStorage(store sessions.Store, r *http.Request, w http.ResponseWriter) *CookieStorage {
	return &CookieStorage{store: store, name: CookieName, r: r, w: w}
}

// load ignora cookies que no se pueden verificar: gorilla devuelve una sesión
// nueva junto al error y eso equivale a no tener sesión.
func (c *CookieStorage) load() (*sessions.Session, error) {
	s, err := c.store.Get(c.r, c.name)
	if s != nil {
		return s, nil
	}
	return nil, err
}

func (c *CookieStorage) Get(_ context.Context, key string) (string, bool, error) {
	s, err := c.load()
	if err != nil {
		return "", false, err
	}
	v, ok := s.Values[key].(string)
	return v, ok, nil
}

func (c *CookieStorage) Put(_ context.Context, entries map[string]string) error {
	s, err := c.load()
	if err != nil {
		return err
	}
	for k, v := range entries {
		s.Values[k] = v
	}
	return s.Save(c.r, c.w)
}

func (c *CookieStorage) Delete(_ context.Context, keys ...string) error {
	s, err := c.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(s.Values, k)
	}
	if len(s.Values) == 0 {
		s.Options.MaxAge = -1
	}
	return s.Save(c.r, c.w)
}
