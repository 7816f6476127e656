// Package main - точка входа gradebook.
//
// Один бинарник, несколько режимов:
// - tracker (по умолчанию): интерактивный учёт оценок в консоли
// - serve: HTTP API каталога книг
// - migrate: схема и демо-данные для SQLite/PostgreSQL
// - version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}
