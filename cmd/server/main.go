// POSTBOARD WEB - Panel de artículos con sesión
// ==============================================
//
// CARACTERÍSTICAS:
// - Login con un único par de credenciales (bcrypt)
// - Sesión persistida en cookie firmada o en Redis
// - Listado con búsqueda y paginación renderizado en servidor
// - Caché con TTL y recarga programada
// - API REST con JWT para clientes sin cookies
//
// CREDENCIALES POR DEFECTO:
// - demo@qubicball.com / demo123

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"postboard-web/internal/di"
)

func main() {
	srv, cleanup, err := di.InitializeServer()
	if err != nil {
		log.Fatalf("❌ Error inicializando servidor: %v", err)
	}
	defer cleanup()

	// Esperar señal de interrupción
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		stop()
		cleanup()
		log.Fatalf("❌ %v", err)
	}
}
