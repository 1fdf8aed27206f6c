package main

import "github.com/amberhq/campaign-gateway/cmd"

func main() {
	cmd.Execute()
}
