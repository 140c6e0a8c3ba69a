// cmd/main.go
package main

import cmd "github.com/mwiater/gstat/cmd/gstat"

// main starts the gstat CLI application by delegating to the cobra root
// command defined in the gstat package.
func main() {
	cmd.Execute()
}
