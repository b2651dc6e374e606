// Package main is the entry point of the yool server.
package main

import (
	"server-yool/internal"
)

func main() {
	internal.Init()
}
