package main

import "time"

func main() {
	for {
		poll()
		time.Sleep(time.Second) // want "found time.Sleep inside a loop, use a ticker instead"
	}
}

func poll() {
	for i := 0; i < 3; i++ {
		time.Sleep(10 * time.Millisecond) // want "found time.Sleep inside a loop, use a ticker instead"
	}

	// A single delay outside a loop is fine.
	time.Sleep(time.Millisecond)

	panic("unreachable") // want "found usage of panic"
}
