package persona

import (
	"math/rand"
	"sync"
	"time"
)

// Picker chooses an index in [0,n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewPicker returns a goroutine safe random picker.
func NewPicker() Picker {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// FixedPicker always picks the same index, clamped to the slice.
type FixedPicker int

func (f FixedPicker) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

// Pick returns a random element of items.
func Pick(p Picker, items []string) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	if p == nil {
		return items[0], true
	}
	return items[p.Intn(len(items))], true
}
