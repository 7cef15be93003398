// Package main provides an informational entry point for the RV32I
// interpreter.
//
// For the full CLI, use: go run ./cmd/rv32i
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32i - RISC-V RV32I interpreter")
	fmt.Println("")
	fmt.Println("Usage: rv32i <flash-image>")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32i <flash-image>' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/rv32i' instead.")
	}
}
