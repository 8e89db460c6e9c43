package main

import "crm-sync/cmd"

func main() {
	cmd.Execute()
}
