// Package main implements the clicktrace CLI.
package main

func main() {
	Execute()
}
