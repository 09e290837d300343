package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(fmt.Errorf("gymwarsctl: %w", err))
	}
}
