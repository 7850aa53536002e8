package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	runsPath := getEnv("NEWSCRAWL_RUNS_DSN", "")

	subcommand := os.Args[1]

	switch subcommand {
	case "crawl":
		handleCrawl(runsPath, os.Args[2:])
	case "sites":
		handleSites()
	case "runs":
		handleRuns(runsPath, os.Args[2:])
	case "articles":
		handleArticles(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("newscrawl - Newspaper search crawler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newscrawl <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  crawl      Search a site for a keyword and write the articles found")
	fmt.Println("  sites      List the sites that can be crawled")
	fmt.Println("  runs       List recorded crawl runs")
	fmt.Println("  articles   List articles in a JSON archive")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NEWSCRAWL_RUNS_DSN    Path to the run log database (default: none)")
	fmt.Println("  NEWSCRAWL_USER_AGENT  User-Agent sent with every request")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.newscrawl/config.yaml when present.")
	fmt.Println("Flags override the configuration file.")
}
