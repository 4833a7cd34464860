// @title Service Gateway API
// @version 1.0
// @description Forwards requests to whitelisted backend services with per-service circuit breaking, and exposes performance and route administration endpoints.
// @BasePath /
// @schemes http https
package main

import (
	"log"

	_ "service-gateway/docs"
	"service-gateway/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
