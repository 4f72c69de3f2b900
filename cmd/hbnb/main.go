// Command hbnb is the interactive console for the hbnb object store.
package main

import "github.com/mesh-intelligence/hbnb/internal/cli"

func main() {
	cli.Execute()
}
