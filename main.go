package main

import (
	"log"

	"github.com/spigell/talentscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
