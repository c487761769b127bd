// Package main provides the entry point for the clamdscan CLI.
package main

func main() {
	Execute()
}
