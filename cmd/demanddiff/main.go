package main

import "github.com/dbsmedya/demanddiff/cmd/demanddiff/cmd"

func main() {
	cmd.Execute()
}
