package reusable_test

import (
	"fmt"

	"github.com/saltfishpr/refuture/reusable"
)

// ExampleSource shows one Source serving repeated production cycles with
// no per-cycle allocation: consuming each result resets the pair.
func ExampleSource() {
	src := reusable.NewSource[int]()

	for i := 1; i <= 3; i++ {
		f := src.Future()
		src.Set(i*i, nil)

		val, _ := f.Get()
		fmt.Println(val)
	}
	// Output:
	// 1
	// 4
	// 9
}

// ExampleToFuture converts a reusable result into a one-shot future so
// several readers can await it.
func ExampleToFuture() {
	src := reusable.NewSource[string]()
	oneShot := reusable.ToFuture(src.Future())

	src.Set("shared", nil)

	a, _ := oneShot.Get()
	b, _ := oneShot.Get()
	fmt.Println(a, b)
	// Output: shared shared
}

// ExampleNewTaskPool drives a pooled asynchronous call: the task that
// carries the computation is recycled once its future is consumed.
func ExampleNewTaskPool() {
	svc := reusable.NewPools()
	pool := reusable.NewTaskPool[int](svc)

	task := pool.Get()
	f := task.Future()
	task.Complete(42, nil)

	val, _ := f.Get()
	fmt.Println(val, pool.Len())
	// Output: 42 1
}
