package main

import "github.com/Madhav-Gupta-28/kopi-shop-backend-go/cmd"

func main() {
	cmd.Execute()
}
