package main

import "github.com/scime/ecommerce/cmd"

func main() {
	cmd.Execute()
}
