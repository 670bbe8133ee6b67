package main

import "flag"

func main() {
	flag.Parse()

	a := NewApp()
	if flag.NArg() > 0 {
		a.PathEntry.SetText(flag.Arg(0))
	}

	a.Window.ShowAndRun()
}
