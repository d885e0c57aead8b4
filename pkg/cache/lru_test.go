package cache

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestCountModeEvictsOldest(t *testing.T) {
	c := NewCount[string](3)
	c.Set("k1", "v1")
	c.Set("k2", "v2")
	c.Set("k3", "v3")
	c.Set("k4", "v4")

	if c.Has("k1") {
		t.Error("k1 should have been evicted")
	}
	for _, k := range []string{"k2", "k3", "k4"} {
		if !c.Has(k) {
			t.Errorf("%s should be resident", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
}

func TestCountModeNeverExceedsCapacity(t *testing.T) {
	const maxItems = 5
	c := NewCount[string](maxItems)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
		if c.Len() > maxItems {
			t.Fatalf("resident count %d exceeds maxItems %d", c.Len(), maxItems)
		}
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	c := NewCount[string](2)
	c.Set("k1", "v1")
	c.Set("k2", "v2")

	if _, ok := c.Get("k1"); !ok {
		t.Fatal("expected k1 hit")
	}
	c.Set("k3", "v3")

	if c.Has("k2") {
		t.Error("k2 should have been evicted, k1 was refreshed by the read")
	}
	if !c.Has("k1") || !c.Has("k3") {
		t.Error("k1 and k3 should be resident")
	}
}

func TestHasDoesNotRefreshRecency(t *testing.T) {
	c := NewCount[string](2)
	c.Set("k1", "v1")
	c.Set("k2", "v2")

	if !c.Has("k1") {
		t.Fatal("expected k1 resident")
	}
	c.Set("k3", "v3")

	if c.Has("k1") {
		t.Error("k1 should have been evicted; Has must not refresh recency")
	}
}

func TestWeightModeEvictsToFit(t *testing.T) {
	c := NewWeighted[string](10, StringWeight)
	c.Set("a", "12345")  // weight 5
	c.Set("b", "123456") // weight 6, total 11 > 10

	if c.Has("a") {
		t.Error("a should have been evicted to admit b")
	}
	if !c.Has("b") {
		t.Error("b should be resident")
	}
	if got := c.Stats().CurrentWeight; got != 6 {
		t.Errorf("expected currentWeight 6, got %d", got)
	}
}

func TestOversizedItemRefused(t *testing.T) {
	c := NewWeighted[string](10, StringWeight)
	c.Set("big", "12345678901") // weight 11 > 10

	if c.Has("big") {
		t.Error("oversized item must not be stored")
	}
	if got := c.Stats().CurrentWeight; got != 0 {
		t.Errorf("expected currentWeight 0, got %d", got)
	}
}

func TestOversizedReplacementDropsExisting(t *testing.T) {
	c := NewWeighted[string](10, StringWeight)
	c.Set("k", "12345")
	if !c.Has("k") {
		t.Fatal("expected k resident")
	}

	c.Set("k", "12345678901") // oversized replacement

	if c.Has("k") {
		t.Error("failed oversized replacement must not leave stale data behind")
	}
	if got := c.Stats().CurrentWeight; got != 0 {
		t.Errorf("expected currentWeight 0 after drop, got %d", got)
	}
}

func TestExactCapacityItemAdmitted(t *testing.T) {
	c := NewWeighted[string](10, StringWeight)
	c.Set("a", "12345")
	c.Set("b", "1234567890") // exactly maxWeight; must evict a and be admitted

	if c.Has("a") {
		t.Error("a should have been evicted")
	}
	if !c.Has("b") {
		t.Error("item weighing exactly maxWeight should be admitted once the cache is empty")
	}
	if got := c.Stats().CurrentWeight; got != 10 {
		t.Errorf("expected currentWeight 10, got %d", got)
	}
}

func TestUpdateInPlace(t *testing.T) {
	c := NewWeighted[string](10, StringWeight)
	c.Set("k", "12345")
	c.Set("k", "1234567") // replacement, not a second slot

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	v, ok := c.Get("k")
	if !ok || v != "1234567" {
		t.Errorf("expected updated value, got %q (ok=%v)", v, ok)
	}
	if got := c.Stats().CurrentWeight; got != 7 {
		t.Errorf("expected currentWeight 7, got %d", got)
	}
}

func TestUpdateRefreshesRecency(t *testing.T) {
	c := NewCount[string](2)
	c.Set("k1", "v1")
	c.Set("k2", "v2")
	c.Set("k1", "v1b") // refresh k1
	c.Set("k3", "v3")

	if c.Has("k2") {
		t.Error("k2 should have been evicted; updating k1 refreshed it")
	}
	if v, ok := c.Get("k1"); !ok || v != "v1b" {
		t.Errorf("expected refreshed k1 with updated value, got %q (ok=%v)", v, ok)
	}
}

// Weight accounting must stay exact under arbitrary interleavings of set,
// get and update with varying payload sizes.
func TestWeightInvariantUnderRandomOps(t *testing.T) {
	const maxWeight = 100
	c := NewWeighted[string](maxWeight, StringWeight)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("k%d", rng.Intn(30))
		switch rng.Intn(3) {
		case 0, 1:
			value := string(make([]byte, rng.Intn(maxWeight+20)))
			c.Set(key, value)
		case 2:
			c.Get(key)
		}

		st := c.Stats()
		if st.CurrentWeight > maxWeight {
			t.Fatalf("op %d: currentWeight %d exceeds maxWeight %d", i, st.CurrentWeight, maxWeight)
		}

		sum := 0
		c.mu.Lock()
		for _, el := range c.items {
			sum += el.Value.(*entry[string]).weight
		}
		c.mu.Unlock()
		if sum != st.CurrentWeight {
			t.Fatalf("op %d: currentWeight %d != sum of entry weights %d", i, st.CurrentWeight, sum)
		}
	}
}

func TestClearIsIdempotent(t *testing.T) {
	c := NewWeighted[string](100, StringWeight)
	c.Set("k1", "hello")
	c.Set("k2", "world")

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", c.Len())
	}
	if got := c.Stats().CurrentWeight; got != 0 {
		t.Errorf("expected currentWeight 0 after clear, got %d", got)
	}

	// clearing an empty cache is a no-op, not a panic
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected 0 entries after double clear, got %d", c.Len())
	}

	c.Set("k3", "back")
	if !c.Has("k3") {
		t.Error("cache should be usable after clear")
	}
}

func TestGetMissReturnsZeroValue(t *testing.T) {
	c := NewCount[string](2)
	v, ok := c.Get("absent")
	if ok {
		t.Error("expected miss")
	}
	if v != "" {
		t.Errorf("expected zero value on miss, got %q", v)
	}
}

func TestStatsReportsMode(t *testing.T) {
	wc := NewWeighted[string](50, StringWeight)
	wc.Set("k", "hello")
	wc.Get("k")
	wc.Get("absent")

	st := wc.Stats()
	if st.Count != 1 || st.MaxWeight != 50 || st.CurrentWeight != 5 {
		t.Errorf("unexpected weight-mode stats: %+v", st)
	}
	if st.MaxItems != 0 {
		t.Errorf("weight-mode stats must not report maxItems, got %d", st.MaxItems)
	}
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", st)
	}

	cc := NewCount[string](7)
	st = cc.Stats()
	if st.MaxItems != 7 || st.MaxWeight != 0 || st.CurrentWeight != 0 {
		t.Errorf("unexpected count-mode stats: %+v", st)
	}
}

func TestStatsDoesNotPerturbRecency(t *testing.T) {
	c := NewCount[string](2)
	c.Set("k1", "v1")
	c.Set("k2", "v2")
	c.Stats()
	c.Set("k3", "v3")

	if c.Has("k1") {
		t.Error("k1 should still be the eviction candidate after Stats")
	}
}

func TestStructuredValues(t *testing.T) {
	type payload struct {
		Title string
		Body  string
	}
	c := NewWeighted[payload](1024, JSONWeight[payload])
	c.Set("k", payload{Title: "t", Body: "b"})

	v, ok := c.Get("k")
	if !ok || v.Title != "t" {
		t.Errorf("expected stored payload, got %+v (ok=%v)", v, ok)
	}
	if got := c.Stats().CurrentWeight; got <= 0 {
		t.Errorf("expected positive marshalled weight, got %d", got)
	}
}
