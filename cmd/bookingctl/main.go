package main

import "table_booking/internal/cli"

func main() {
	cli.Execute()
}
