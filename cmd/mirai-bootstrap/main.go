package main

import "github.com/oshokin/mirai-bootstrap/cmd/mirai-bootstrap/cmd"

func main() {
	cmd.Execute()
}
