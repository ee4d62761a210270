// Package session mantiene el estado de autenticación de un visitante y lo
// refleja en un Storage inyectado para que sobreviva a una recarga.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

type User struct {
	Email string `json:"email"`
}

type Session struct {
	Authenticated bool
	User          *User
}

// Verifier decide si un par email/contraseña es válido.
type Verifier interface {
	CheckCredentials(email, password string) bool
}

// Manager es el objeto de sesión explícito que se pasa a quien lo necesite.
type Manager struct {
	store    Storage
	verifier Verifier
	logger   *zap.Logger
	current  Session
}

// Restore lee el registro persistido una sola vez. Un registro ausente,
// incompleto o corrupto equivale a una sesión sin autenticar.
func Restore(ctx context.Context, store Storage, verifier Verifier, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: store, verifier: verifier, logger: logger}

	flag, ok, err := store.Get(ctx, KeyAuthenticated)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyAuthenticated, err)
	}
	if !ok || flag != "true" {
		return m, nil
	}

	raw, ok, err := store.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyUser, err)
	}
	if !ok {
		return m, nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("⚠️ Ignoring malformed persisted user", zap.Error(err))
		return m, nil
	}

	m.current = Session{Authenticated: true, User: &user}
	return m, nil
}

func (m *Manager) Session() Session {
	return m.current
}

func (m *Manager) Authenticated() bool {
	return m.current.Authenticated
}

func (m *Manager) User() *User {
	return m.current.User
}

// Login devuelve false sin tocar nada si las credenciales no coinciden. El
// error queda reservado para fallos del Storage.
func (m *Manager) Login(ctx context.Context, email, password string) (bool, error) {
	if !m.verifier.CheckCredentials(email, password) {
		m.logger.Info("❌ Login failed", zap.String("email", email))
		return false, nil
	}

	user := User{Email: email}
	raw, err := json.Marshal(user)
	if err != nil {
		return false, err
	}

	if err := m.store.Put(ctx, map[string]string{
		KeyAuthenticated: "true",
		KeyUser:          string(raw),
	}); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}

	m.current = Session{Authenticated: true, User: &user}
	m.logger.Info("✅ Login successful", zap.String("email", email))
	return true, nil
}

// Logout limpia la sesión en memoria siempre, aunque falle el borrado persistido.
func (m *Manager) Logout(ctx context.Context) error {
	m.current = Session{}
	if err := m.store.Delete(ctx, KeyAuthenticated, KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
