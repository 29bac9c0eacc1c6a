package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

// serve escucha en addr hasta recibir una señal en quit (devuelve nil) o hasta que
// Listen falle, p. ej. puerto ocupado (devuelve el error).
func serve(app *fiber.App, addr string, quit <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err == nil {
			return fmt.Errorf("servidor detenido sin señal de apagado")
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-quit:
		return nil
	}
}
