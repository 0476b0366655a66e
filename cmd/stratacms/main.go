// Package main starts the StrataCMS server.
package main

import (
	"context"

	"github.com/dalemusser/stratacms/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
