// Command pseudoscribe translates pseudocode into real programming languages
// and estimates its performance, using a Gemini model.
//
// Usage:
//
//	pseudoscribe translate [-config file] [-lenient] <file|url|->
//	pseudoscribe analyze   [-config file] [-lenient] <file|url|->
//	pseudoscribe all       [-config file] [-lenient] <file|url|->
//	pseudoscribe recover   [-config file] [-lenient] [-require name:kind,...] <file|->
//	pseudoscribe version
//
// The recover command runs the response recovery pipeline offline over saved
// model output. Configuration comes from the optional YAML file, a .env file
// in the working directory and the environment (GEMINI_API_KEY and friends).
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	env := &environment{stdin: stdin, stdout: stdout, stderr: stderr}
	switch args[0] {
	case "translate", "analyze", "all":
		return env.runModel(ctx, args[0], args[1:])
	case "recover":
		return env.runRecover(ctx, args[1:])
	case "version":
		env.printf(stdout, "pseudoscribe %s\n", version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		env.printf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = io.WriteString(w, `Usage: pseudoscribe <command> [flags] <file|url|->

Commands:
  translate   translate pseudocode into Python, JavaScript, Java, C# and C++
  analyze     estimate time and space complexity and suggest optimizations
  all         translate and analyze concurrently
  recover     recover a structured record from saved model output
  version     print the version

Run "pseudoscribe <command> -h" for the flags of a command.
`)
}
