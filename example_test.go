package genarena_test

import (
	"fmt"

	"github.com/hupe1980/genarena"
)

func Example() {
	type monster struct {
		Name string
		HP   int
	}

	arena := genarena.New[monster]()

	goblin := arena.Insert(monster{Name: "goblin", HP: 7})
	dragon := arena.Insert(monster{Name: "dragon", HP: 120})

	if m, ok := arena.Get(dragon); ok {
		fmt.Println(m.Name, m.HP)
	}

	// Handles survive removals of other entries.
	arena.Remove(goblin)
	fmt.Println(arena.Contains(goblin), arena.Contains(dragon))

	// The vacated slot is reused, but the old handle stays stale.
	wolf := arena.Insert(monster{Name: "wolf", HP: 15})
	_, ok := arena.Get(goblin)
	fmt.Println(ok)
	if m, ok := arena.Get(wolf); ok {
		fmt.Println(m.Name)
	}

	// Output:
	// dragon 120
	// false true
	// false
	// wolf
}

func ExampleArena_GetRef() {
	arena := genarena.New[int]()
	idx := arena.Insert(10)

	if p := arena.GetRef(idx); p != nil {
		*p += 5
	}

	v, _ := arena.Get(idx)
	fmt.Println(v)
	// Output: 15
}

func ExampleArena_All() {
	arena := genarena.New[string]()
	arena.Insert("alpha")
	beta := arena.Insert("beta")
	arena.Insert("gamma")
	arena.Remove(beta)

	for idx, v := range arena.All() {
		fmt.Println(idx, v)
	}
	// Output:
	// Index(0:1) alpha
	// Index(2:1) gamma
}

func ExampleIndexSet() {
	arena := genarena.New[string]()
	visible := genarena.NewIndexSet()

	a := arena.Insert("a")
	b := arena.Insert("b")
	visible.Add(a)
	visible.Add(b)
	visible.Remove(b)

	fmt.Println(visible.Contains(a), visible.Contains(b), visible.Len())
	// Output: true false 1
}
