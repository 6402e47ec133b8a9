package main

import (
	"log"
	"os"

	"github.com/viant/authboot/bootstrap"
)

func main() {
	if err := bootstrap.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
