package main

import "github.com/Aiting-for-you/hot-water-analysis-system/cmd"

func main() {
	cmd.Execute()
}
