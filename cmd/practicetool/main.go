//go:build windows

// Command practicetool is built with -buildmode=c-shared. Loading the DLL into the game starts
// the tool; there is nothing to call.
package main

import "C"

import "practicetool/bootstrap"

func init() {
	bootstrap.Attach()
}

func main() {}
