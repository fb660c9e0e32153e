package main

// startDumpHandler is a no-op: Windows has no SIGUSR1.
func startDumpHandler(string) {}
