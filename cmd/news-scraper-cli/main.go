// Package main is the CLI entry point for the news scraper.
package main

import "github.com/whhaicheng/news-scraper/internal/cli"

func main() {
	cli.Execute()
}
