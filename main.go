package main

import "i18n-templates/internal/cli"

func main() {
	cli.Execute()
}
