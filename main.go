package main

import (
	"errors"
	"log"
	"os"

	"oceanfetch/cmd"
	"oceanfetch/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration " + err.Error())
	}
	if err := cmd.Execute(cnf); err != nil {
		if !errors.Is(err, cmd.ErrUnavailable) {
			log.Printf("Failed to execute command " + err.Error())
		}
		os.Exit(1)
	}
}
