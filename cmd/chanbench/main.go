// Command chanbench runs a small load balancer: two input channels feed
// two output channels through a select-driven router, drained by a pool
// of workers, so the select engine's fairness guarantee can be observed
// outside of go test. Modeled on gaio's own aio_test.go, which wires up a
// runnable echo server rather than asserting in isolation.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/xtaci/gochan"
)

func main() {
	workers := flag.Int("workers", 4, "number of draining workers")
	capacity := flag.Int("capacity", 8, "capacity of each channel")
	items := flag.Int("items", 100, "number of items to route")
	flag.Parse()

	in1, err := gochan.MakeN[int](*capacity)
	if err != nil {
		log.Fatal(err)
	}
	in2, err := gochan.MakeN[int](*capacity)
	if err != nil {
		log.Fatal(err)
	}
	out1, err := gochan.MakeN[int](*capacity)
	if err != nil {
		log.Fatal(err)
	}
	out2, err := gochan.MakeN[int](*capacity)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var routerWG sync.WaitGroup
	routerWG.Add(1)
	go func() {
		defer routerWG.Done()
		for {
			ok, err := gochan.Select(ctx,
				in1.Receiver(func(v int) { route(out1, out2, v) }),
				in2.Receiver(func(v int) { route(out1, out2, v) }),
			)
			if err != nil || !ok {
				return
			}
		}
	}()

	go func() {
		for i := 1; i <= *items; i++ {
			if i%2 == 1 {
				in1.Send(i)
			} else {
				in2.Send(i)
			}
		}
		in1.Close()
		in2.Close()
	}()

	var sum int64
	counts := make([]int64, *workers)
	var workerWG sync.WaitGroup
	for w := 0; w < *workers; w++ {
		workerWG.Add(1)
		go func(id int) {
			defer workerWG.Done()
			drain := func(v int) {
				atomic.AddInt64(&sum, int64(v*2))
				atomic.AddInt64(&counts[id], 1)
			}
			for {
				ok, err := gochan.Select(ctx,
					out1.Receiver(drain),
					out2.Receiver(drain),
				)
				if err != nil || !ok {
					return
				}
			}
		}(w)
	}

	routerWG.Wait()
	out1.Close()
	out2.Close()
	workerWG.Wait()

	log.Printf("sum=%d", sum)
	for i, c := range counts {
		log.Printf("worker %d: %d", i, c)
	}
}

func route(out1, out2 gochan.Channel[int], v int) {
	if rand.IntN(2) == 0 {
		out1.Send(v)
	} else {
		out2.Send(v)
	}
}
