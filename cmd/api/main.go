package main

import (
	"log"

	"allogator/cmd"
)

func main() {
	apiHandler, cfg, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(cfg.Port)
	if err != nil {
		log.Fatal(err)
	}
}
