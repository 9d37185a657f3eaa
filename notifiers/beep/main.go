// Package main provides a beep notifier for HolsterCoach.
// It sounds the terminal bell on draw events and prints a summary line on
// session stop.
package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Request represents the input from the notifier executor.
type Request struct {
	Event      string  `json:"event"`
	Module     string  `json:"module"`
	Message    string  `json:"message"`
	DurationMs float64 `json:"durationMs"`
}

// Response represents the output to the notifier executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		respond(Response{Success: false, Error: fmt.Sprintf("decode request: %v", err)})
		os.Exit(1)
	}

	switch req.Event {
	case "draw":
		// Terminal bell, one beep per completed repetition
		fmt.Fprint(os.Stderr, "\a")
		if req.Message != "" {
			fmt.Fprintln(os.Stderr, req.Message)
		}
	case "session_stop":
		fmt.Fprintf(os.Stderr, "Session ended: %s\n", req.Module)
	default:
		respond(Response{Success: false, Error: fmt.Sprintf("unknown event: %s", req.Event)})
		os.Exit(1)
	}

	respond(Response{Success: true})
}

func respond(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
