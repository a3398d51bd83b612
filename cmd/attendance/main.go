package main

import "github.com/Deeps-444/Attendance-Tracker/internal/cli"

func main() {
	cli.Execute()
}
