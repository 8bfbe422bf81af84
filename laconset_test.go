package tre

import "testing"

func TestLaconSetOutOfRangeIndexReportsNoMatch(t *testing.T) {
	ls := &laconSet{entries: nil}
	if ls.TestLacon(0, []byte("anything"), 0) {
		t.Error("TestLacon with no compiled entries should report false, not panic")
	}
}

func TestLaconSetNilStatsIsSafe(t *testing.T) {
	ls := &laconSet{entries: nil, stats: nil}
	if ls.TestLacon(3, []byte("x"), 0) {
		t.Error("TestLacon with an out-of-range index and nil stats should report false")
	}
}
