package main

import "github.com/Tiliavir/class-attendance/cmd"

func main() {
	cmd.Execute()
}
