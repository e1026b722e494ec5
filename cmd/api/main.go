package main

import (
	"go.uber.org/fx"

	"github.com/canteenhq/restro/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
