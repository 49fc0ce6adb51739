package main

import (
	"context"
	"log"

	"github.com/Jan540/account-manager/internal/server"
	"github.com/Jan540/account-manager/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, nil)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
