package main

import "github.com/frahmantamala/travel-booking/cmd"

func main() {
	cmd.Execute()
}
