// Command lander evolves moon lander control programs.
package main

import "github.com/mesh-intelligence/lander/internal/cli"

func main() {
	cli.Execute()
}
