package main

import "os"

func main() {
	os.Exit(newSystemApp().execute(os.Args[1:]))
}
