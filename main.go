/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/gmaffy/ngs-wrap/cmd"

func main() {
	cmd.Execute()
}
