package routine

// RunSafe executes fn, recovering any panic it raises.
//
// When fn panics, the cleanup functions are called in order with the
// panic value. The panic does not propagate; the caller continues.
func RunSafe(fn func(), cleanup ...func(r any)) {
	defer Recover(cleanup...)

	fn()
}

// GoSafe executes fn in a new goroutine, recovering any panic it raises.
// A panicking fn does not crash the process; the cleanup functions are
// called in order with the panic value.
func GoSafe(fn func(), cleanup ...func(r any)) {
	go RunSafe(fn, cleanup...)
}
