// Command lienzo is the developer CLI of the canvas engine.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute(os.Args[1:]))
}
