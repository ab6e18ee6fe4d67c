package storage

import (
	"os"
	"sort"
	"testing"
	"time"
)

func TestRedisMemberRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	member, err := encodeMember(redisEntry{ID: 42, Player: "alice|bob", CreatedAt: created})
	if err != nil {
		t.Fatalf("encodeMember() failed: %v", err)
	}

	e, err := decodeMember(member)
	if err != nil {
		t.Fatalf("decodeMember() failed: %v", err)
	}
	if e.ID != 42 || e.Player != "alice|bob" || !e.CreatedAt.Equal(created) {
		t.Errorf("decoded %+v", e)
	}
}

func TestRedisMemberOrderFavorsOlder(t *testing.T) {
	// Descending lexicographic order must list earlier ids first
	var members []string
	for _, id := range []int64{9, 10, 1, 100, 2} {
		m, err := encodeMember(redisEntry{ID: id, Player: "p"})
		if err != nil {
			t.Fatalf("encodeMember() failed: %v", err)
		}
		members = append(members, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(members)))

	var got []int64
	for _, m := range members {
		e, _ := decodeMember(m)
		got = append(got, e.ID)
	}
	want := []int64{1, 2, 9, 10, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, expected %v", got, want)
		}
	}
}

func TestRedisDecodeMalformed(t *testing.T) {
	for _, m := range []string{"", "no-separator", "0001|{not json"} {
		if _, err := decodeMember(m); err == nil {
			t.Errorf("decodeMember(%q) should fail", m)
		}
	}
}

// TestRedisStoreLive runs against a real server when BUBBLEPOP_TEST_REDIS is set.
func TestRedisStoreLive(t *testing.T) {
	url := os.Getenv("BUBBLEPOP_TEST_REDIS")
	if url == "" {
		t.Skip("BUBBLEPOP_TEST_REDIS not set")
	}

	store, err := OpenRedis(url)
	if err != nil {
		t.Fatalf("OpenRedis() failed: %v", err)
	}
	defer store.Close()

	store.key = "bubblepop-test:" + t.Name()
	store.seqKey = store.key + ":seq"
	defer store.client.Del(t.Context(), store.key, store.seqKey)

	for i := 0; i < MaxEntries+3; i++ {
		if err := store.Record("p", i); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	records, err := store.All()
	if err != nil {
		t.Fatalf("All() failed: %v", err)
	}
	if len(records) != MaxEntries {
		t.Fatalf("Expected %d records, got %d", MaxEntries, len(records))
	}
	if high, _ := store.TopScore(); high != MaxEntries+2 {
		t.Errorf("TopScore() = %d, expected %d", high, MaxEntries+2)
	}
}
